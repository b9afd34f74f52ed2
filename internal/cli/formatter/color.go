package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/moneyplan/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

func fg(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

var (
	StyleGreen  = fg(ColorGreen)
	StyleYellow = fg(ColorYellow)
	StyleRed    = fg(ColorRed)
	StyleBlue   = fg(ColorBlue)
	StylePurple = fg(ColorPurple)
	StyleDim    = fg(ColorDim)
	StyleFg     = fg(ColorFg)
	StyleHeader = fg(ColorHeader).Bold(true)
	StyleBold   = StyleFg.Bold(true)
	StyleWarn   = StyleRed.Bold(true)
)

var categoryStyles = map[domain.BucketCategory]lipgloss.Style{
	domain.CategoryNeed:             StyleBlue,
	domain.CategoryWant:             StyleYellow,
	domain.CategorySavingsInvesting: StyleGreen,
}

// CategoryColor styles a bucket category label. OTHER and unknown
// categories are dimmed.
func CategoryColor(c domain.BucketCategory) lipgloss.Style {
	if s, ok := categoryStyles[c]; ok {
		return s
	}
	return StyleDim
}

type pill struct {
	icon  string
	style lipgloss.Style
}

var statusPills = map[domain.PlanStatus]pill{
	domain.PlanDraft:     {"●", StyleYellow},
	domain.PlanCommitted: {"✔", StyleGreen},
	domain.PlanArchived:  {"✖", StyleDim},
}

// StatusPill renders a plan lifecycle state, e.g. "● DRAFT".
func StatusPill(status domain.PlanStatus) string {
	label := strings.ToUpper(string(status))
	p, ok := statusPills[status]
	if !ok {
		return StyleDim.Render(label)
	}
	return p.style.Render(p.icon + " " + label)
}

// Header is an uppercased section title over a rule of the same width.
func Header(text string) string {
	title := strings.ToUpper(text)
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(title), Dim(strings.Repeat("─", lipgloss.Width(title))))
}

func Dim(text string) string  { return StyleDim.Render(text) }
func Bold(text string) string { return StyleBold.Render(text) }
