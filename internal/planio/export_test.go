package planio

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/alexanderramin/moneyplan/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

func overAllocatedPlan() *domain.Plan {
	date := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	return &domain.Plan{
		ID:             "plan-1",
		InitialBalance: decimal.NewFromInt(1000),
		CreatedAt:      date,
		PlanDate:       &date,
		Accounts: []*domain.PlanAccount{{
			ID:        "pa-1",
			Account:   domain.Account{ID: "a1", Name: "Checking"},
			IsChecked: true,
			Buckets: []*domain.Bucket{
				{Name: "Rent", Category: domain.CategoryNeed, AllocatedAmount: decimal.NewFromInt(1000)},
				{Name: "Coffee", Category: domain.CategoryWant, AllocatedAmount: decimal.NewFromInt(1)},
			},
		}},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("csv")
	assert.Error(t, err)
}

func TestExport_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, overAllocatedPlan(), FormatJSON))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "-1.00", doc.Remaining)
	assert.Equal(t, "1001.00", doc.Allocated)
	assert.True(t, doc.OverAllocated)
	assert.Equal(t, "2026-10-01", doc.PlanDate)
	require.Len(t, doc.Accounts, 1)
	assert.Equal(t, "need", doc.Accounts[0].Buckets[0].Category)
}

func TestExport_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, overAllocatedPlan(), FormatYAML))

	var doc Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "plan-1", doc.ID)
	assert.Equal(t, "draft", doc.Status)
	assert.Contains(t, buf.String(), "over_allocated: true")
}

func TestExport_XLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, overAllocatedPlan(), FormatXLSX))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(sheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Account", header)

	bucket, err := f.GetCellValue(sheetName, "B3")
	require.NoError(t, err)
	assert.Equal(t, "Coffee", bucket)

	label, err := f.GetCellValue(sheetName, "C7")
	require.NoError(t, err)
	assert.Equal(t, "Remaining", label)
}

func TestExport_NilPlan(t *testing.T) {
	assert.Error(t, Export(&bytes.Buffer{}, nil, FormatJSON))
}
