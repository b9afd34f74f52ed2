// Package planio writes plans to files for use outside moneyplan.
package planio

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/alexanderramin/moneyplan/internal/domain"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML, FormatXLSX:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown export format %q (want json, yaml or xlsx)", s)
}

// Document is the exported shape of a plan. Amounts are decimal strings so
// no precision is lost.
type Document struct {
	ID             string       `json:"id" yaml:"id"`
	Status         string       `json:"status" yaml:"status"`
	PlanDate       string       `json:"planDate,omitempty" yaml:"plan_date,omitempty"`
	CreatedAt      string       `json:"createdAt" yaml:"created_at"`
	Notes          string       `json:"notes,omitempty" yaml:"notes,omitempty"`
	InitialBalance string       `json:"initialBalance" yaml:"initial_balance"`
	Allocated      string       `json:"allocated" yaml:"allocated"`
	Remaining      string       `json:"remaining" yaml:"remaining"`
	OverAllocated  bool         `json:"overAllocated" yaml:"over_allocated"`
	Accounts       []AccountDoc `json:"accounts" yaml:"accounts"`
}

type AccountDoc struct {
	Name      string      `json:"name" yaml:"name"`
	Notes     string      `json:"notes,omitempty" yaml:"notes,omitempty"`
	Checked   bool        `json:"checked" yaml:"checked"`
	Allocated string      `json:"allocated" yaml:"allocated"`
	Buckets   []BucketDoc `json:"buckets" yaml:"buckets"`
}

type BucketDoc struct {
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category" yaml:"category"`
	Amount   string `json:"amount" yaml:"amount"`
}

func NewDocument(p *domain.Plan) Document {
	doc := Document{
		ID:             p.ID,
		Status:         string(p.Status()),
		CreatedAt:      p.CreatedAt.Format("2006-01-02"),
		Notes:          p.Notes,
		InitialBalance: p.InitialBalance.StringFixed(2),
		Allocated:      p.Allocated().StringFixed(2),
		Remaining:      p.Remaining().StringFixed(2),
		OverAllocated:  p.OverAllocated(),
		Accounts:       make([]AccountDoc, 0, len(p.Accounts)),
	}
	if p.PlanDate != nil {
		doc.PlanDate = p.PlanDate.Format("2006-01-02")
	}
	for _, pa := range p.Accounts {
		ad := AccountDoc{
			Name:      pa.Account.Name,
			Notes:     pa.Notes,
			Checked:   pa.IsChecked,
			Allocated: pa.Allocated().StringFixed(2),
			Buckets:   make([]BucketDoc, 0, len(pa.Buckets)),
		}
		for _, b := range pa.Buckets {
			ad.Buckets = append(ad.Buckets, BucketDoc{
				Name:     b.Name,
				Category: b.Category.Label(),
				Amount:   b.AllocatedAmount.StringFixed(2),
			})
		}
		doc.Accounts = append(doc.Accounts, ad)
	}
	return doc
}

// Export writes p to w in the given format.
func Export(w io.Writer, p *domain.Plan, format Format) error {
	if p == nil {
		return fmt.Errorf("no plan to export")
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(NewDocument(p))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(NewDocument(p)); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case FormatXLSX:
		return writeXLSX(w, p)
	}
	return fmt.Errorf("unknown export format %q", format)
}

const sheetName = "Plan"

func writeXLSX(w io.Writer, p *domain.Plan) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Border: border,
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	moneyFmt := "$#,##0.00;-$#,##0.00"
	moneyStyle, err := f.NewStyle(&excelize.Style{Border: border, CustomNumFmt: &moneyFmt})
	if err != nil {
		return fmt.Errorf("creating money style: %w", err)
	}
	overStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true, Color: "CC241D"},
		Border:       border,
		CustomNumFmt: &moneyFmt,
	})
	if err != nil {
		return fmt.Errorf("creating warning style: %w", err)
	}

	_ = f.SetColWidth(sheetName, "A", "A", 20)
	_ = f.SetColWidth(sheetName, "B", "B", 24)
	_ = f.SetColWidth(sheetName, "C", "C", 20)
	_ = f.SetColWidth(sheetName, "D", "D", 14)

	headers := []string{"Account", "Bucket", "Category", "Amount"}
	for i, h := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		_ = f.SetCellValue(sheetName, cell, h)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	row := 2
	for _, pa := range p.Accounts {
		for _, b := range pa.Buckets {
			_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), pa.Account.Name)
			_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), b.Name)
			_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), b.Category.Label())
			_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), b.AllocatedAmount.InexactFloat64())
			_ = f.SetCellStyle(sheetName, fmt.Sprintf("D%d", row), fmt.Sprintf("D%d", row), moneyStyle)
			row++
		}
	}

	row++
	summary := []struct {
		label string
		value float64
		style int
	}{
		{"Initial balance", p.InitialBalance.InexactFloat64(), moneyStyle},
		{"Allocated", p.Allocated().InexactFloat64(), moneyStyle},
		{"Remaining", p.Remaining().InexactFloat64(), moneyStyle},
	}
	if p.OverAllocated() {
		summary[2].style = overStyle
	}
	for _, s := range summary {
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), s.label)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), s.value)
		_ = f.SetCellStyle(sheetName, fmt.Sprintf("D%d", row), fmt.Sprintf("D%d", row), s.style)
		row++
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing xlsx: %w", err)
	}
	return nil
}
