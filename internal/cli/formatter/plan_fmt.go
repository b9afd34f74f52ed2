package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/moneyplan/internal/domain"
)

// PendingFunc reports whether a plan account has a checked-state write in
// flight. A nil PendingFunc means nothing is pending.
type PendingFunc func(planAccountID string) bool

// FormatPlanList renders the plans table used by "plan list".
func FormatPlanList(plans []*domain.Plan) string {
	if len(plans) == 0 {
		return Dim("No plans yet. Create one with: moneyplan plan create <balance>") + "\n"
	}
	rows := make([][]string, 0, len(plans))
	for _, p := range plans {
		rows = append(rows, []string{
			TruncID(p.ID),
			planDate(p),
			StatusPill(p.Status()),
			FormatMoney(p.InitialBalance),
			remainingCell(p),
			fmt.Sprintf("%d/%d", p.CheckedCount(), len(p.Accounts)),
		})
	}
	t := Table{
		Headers:    []string{"ID", "DATE", "STATUS", "BALANCE", "REMAINING", "CHECKED"},
		Rows:       rows,
		RightAlign: map[int]bool{3: true, 4: true},
	}
	return t.Render()
}

// FormatPlan renders one plan with its accounts and buckets.
func FormatPlan(p *domain.Plan, pending PendingFunc) string {
	var b strings.Builder

	title := "Plan " + planDate(p)
	summary := []string{
		fmt.Sprintf("%s  %s", StatusPill(p.Status()), TruncID(p.ID)),
		fmt.Sprintf("Initial balance  %s", Bold(FormatMoney(p.InitialBalance))),
		fmt.Sprintf("Allocated        %s", FormatMoney(p.Allocated())),
		fmt.Sprintf("Remaining        %s", Remaining(p.Remaining())),
	}
	if p.Notes != "" {
		summary = append(summary, "", Dim(p.Notes))
	}
	b.WriteString(RenderBox(title, strings.Join(summary, "\n")))
	b.WriteString("\n\n")

	if len(p.Accounts) == 0 {
		b.WriteString(Dim("No accounts on this plan."))
		b.WriteString("\n")
		return b.String()
	}

	for i, pa := range p.Accounts {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(formatPlanAccount(pa, pending))
	}
	return b.String()
}

func formatPlanAccount(pa *domain.PlanAccount, pending PendingFunc) string {
	var b strings.Builder
	busy := pending != nil && pending(pa.ID)

	fmt.Fprintf(&b, "%s %s  %s  %s\n",
		CheckBox(pa.IsChecked, busy),
		Bold(pa.Account.Name),
		TruncID(pa.ID),
		FormatMoney(pa.Allocated()))
	if pa.Notes != "" {
		fmt.Fprintf(&b, "    %s\n", Dim(pa.Notes))
	}
	if len(pa.Buckets) == 0 {
		fmt.Fprintf(&b, "    %s\n", Dim("no buckets"))
		return b.String()
	}

	rows := make([][]string, 0, len(pa.Buckets))
	for _, bk := range pa.Buckets {
		rows = append(rows, []string{bk.Name, CategoryLabel(bk.Category), FormatMoney(bk.AllocatedAmount)})
	}
	t := Table{
		Headers:    []string{"BUCKET", "CATEGORY", "AMOUNT"},
		Rows:       rows,
		RightAlign: map[int]bool{2: true},
	}
	for _, line := range strings.Split(strings.TrimRight(t.Render(), "\n"), "\n") {
		b.WriteString("    ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// FormatShareLink renders a created share link and its expiry.
func FormatShareLink(link *domain.ShareLink, sms string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", Bold(link.URL))
	if !link.ExpiresAt.IsZero() {
		fmt.Fprintf(&b, "%s\n", Dim(fmt.Sprintf("Expires %s (%s)", HumanDate(link.ExpiresAt), RelativeTime(link.ExpiresAt))))
	}
	if sms != "" {
		fmt.Fprintf(&b, "%s %s\n", Dim("SMS:"), sms)
	}
	return b.String()
}

func planDate(p *domain.Plan) string {
	if p.PlanDate != nil {
		return HumanDate(*p.PlanDate)
	}
	return HumanDate(p.CreatedAt)
}

func remainingCell(p *domain.Plan) string {
	r := p.Remaining().Round(2)
	if r.IsNegative() {
		return StyleWarn.Render(FormatMoney(r))
	}
	return FormatMoney(r)
}

// Count pluralizes a noun for simple summaries ("1 account", "3 accounts").
func Count(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
