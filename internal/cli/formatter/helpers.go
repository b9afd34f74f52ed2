package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/moneyplan/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		return boxStyle.Render(titleRendered + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

var hundred = decimal.NewFromInt(100)

// FormatMoney renders an amount as US dollars: "$1,000.00", "-$1.00".
func FormatMoney(d decimal.Decimal) string {
	rounded := d.Round(2)
	abs := rounded.Abs()
	whole := abs.Truncate(0)
	cents := abs.Sub(whole).Mul(hundred).IntPart()
	s := fmt.Sprintf("$%s.%02d", humanize.Comma(whole.IntPart()), cents)
	if rounded.IsNegative() {
		return "-" + s
	}
	return s
}

// Remaining renders the unallocated balance, in red with a warning when the
// plan is over-allocated.
// The flag follows the displayed cents, so -0.001 reads as a clean $0.00.
func Remaining(d decimal.Decimal) string {
	cents := d.Round(2)
	switch {
	case cents.IsNegative():
		return StyleWarn.Render(FormatMoney(cents) + " ▲ over-allocated")
	case cents.IsZero():
		return StyleGreen.Render(FormatMoney(cents))
	}
	return StyleFg.Render(FormatMoney(cents))
}

// HumanDate returns "Oct 1, 2026" style dates; the zero time renders as "--".
func HumanDate(t time.Time) string {
	if t.IsZero() {
		return "--"
	}
	return t.Format("Jan 2, 2006")
}

// RelativeTime returns "3 days ago" / "2 weeks from now" style strings.
func RelativeTime(t time.Time) string {
	return RelativeTimeFrom(t, time.Now())
}

func RelativeTimeFrom(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// CheckBox renders the checked state of a plan account. A pending write
// renders as a spinner frame so the row reads as busy.
func CheckBox(checked, pending bool) string {
	switch {
	case pending:
		return StylePurple.Render(spinnerFrames[0])
	case checked:
		return StyleGreen.Render("[x]")
	default:
		return StyleDim.Render("[ ]")
	}
}

// CategoryLabel renders a bucket category in its color.
func CategoryLabel(c domain.BucketCategory) string {
	return CategoryColor(c).Render(c.Label())
}
