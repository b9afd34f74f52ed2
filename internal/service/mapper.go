package service

import (
	"time"

	"github.com/alexanderramin/moneyplan/internal/domain"
	"github.com/alexanderramin/moneyplan/internal/graphql"
)

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func parseOptionalTime(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t := parseTime(*s)
	if t.IsZero() {
		return nil
	}
	return &t
}

func toDomainPlan(p *graphql.Plan) *domain.Plan {
	if p == nil {
		return nil
	}
	out := &domain.Plan{
		ID:               p.ID,
		InitialBalance:   p.InitialBalance,
		RemainingBalance: p.RemainingBalance,
		Notes:            p.Notes,
		IsCommitted:      p.IsCommitted,
		IsArchived:       p.IsArchived,
		CreatedAt:        parseTime(p.CreatedAt),
		PlanDate:         parseOptionalTime(p.PlanDate),
		ArchivedAt:       parseOptionalTime(p.ArchivedAt),
		Accounts:         make([]*domain.PlanAccount, 0, len(p.Accounts)),
	}
	for _, pa := range p.Accounts {
		acct := &domain.PlanAccount{
			ID:        pa.ID,
			Account:   *toDomainAccount(&pa.Account),
			IsChecked: pa.IsChecked,
			Notes:     pa.Notes,
			Buckets:   make([]*domain.Bucket, 0, len(pa.Buckets)),
		}
		for _, b := range pa.Buckets {
			acct.Buckets = append(acct.Buckets, &domain.Bucket{
				ID:              b.ID,
				Name:            b.Name,
				Category:        domain.BucketCategory(b.Category),
				AllocatedAmount: b.AllocatedAmount,
			})
		}
		out.Accounts = append(out.Accounts, acct)
	}
	return out
}

func toDomainPlans(ps []*graphql.Plan) []*domain.Plan {
	out := make([]*domain.Plan, 0, len(ps))
	for _, p := range ps {
		out = append(out, toDomainPlan(p))
	}
	return out
}

func toDomainAccount(a *graphql.Account) *domain.Account {
	if a == nil {
		return nil
	}
	return &domain.Account{ID: a.ID, Name: a.Name, Notes: a.Notes}
}

func toDomainUser(u graphql.User) domain.User {
	return domain.User{ID: u.ID, Email: u.Email, Name: u.Name}
}

func toDomainShareLink(l *graphql.ShareLink) *domain.ShareLink {
	if l == nil {
		return nil
	}
	return &domain.ShareLink{URL: l.URL, ExpiresAt: parseTime(l.ExpiresAt)}
}

// bucketInputs is the BucketInput list sent with changeAccountConfiguration.
func bucketInputs(buckets []*domain.Bucket) []map[string]any {
	out := make([]map[string]any, 0, len(buckets))
	for _, b := range buckets {
		in := map[string]any{
			"name":            b.Name,
			"category":        string(b.Category),
			"allocatedAmount": b.AllocatedAmount.String(),
		}
		if b.ID != "" {
			in["id"] = b.ID
		}
		out = append(out, in)
	}
	return out
}
