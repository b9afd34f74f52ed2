package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/moneyplan/internal/domain"
	"github.com/alexanderramin/moneyplan/internal/pagination"
)

// FormatAccountList renders one page of accounts. A nil paginator renders
// the rows without page info.
func FormatAccountList(accounts []*domain.Account, p *pagination.Paginator) string {
	if len(accounts) == 0 {
		return Dim("No accounts yet. Add one with: moneyplan accounts add <name>") + "\n"
	}
	rows := make([][]string, 0, len(accounts))
	for _, a := range accounts {
		rows = append(rows, []string{TruncID(a.ID), a.Name, Dim(a.Notes)})
	}

	var b strings.Builder
	b.WriteString(RenderTable([]string{"ID", "NAME", "NOTES"}, rows))
	if p != nil && p.TotalPages() > 1 {
		b.WriteString(PageInfo(p))
		b.WriteString("\n")
	}
	return b.String()
}

// PageInfo renders "Page 2 of 3 · 25 accounts" plus navigation hints.
func PageInfo(p *pagination.Paginator) string {
	parts := []string{fmt.Sprintf("Page %d of %d · %s", p.CurrentPage(), p.TotalPages(), Count(p.TotalItems(), "account"))}
	if p.HasPrevious() {
		parts = append(parts, "--prev")
	}
	if p.HasNext() {
		parts = append(parts, "--next")
	}
	return Dim(strings.Join(parts, "  "))
}

// FormatUser renders the signed-in user for "whoami".
func FormatUser(u *domain.User) string {
	if u.Name != "" {
		return fmt.Sprintf("%s %s\n", Bold(u.Name), Dim("<"+u.Email+">"))
	}
	return Bold(u.Email) + "\n"
}
