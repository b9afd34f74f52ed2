package testutil

import (
	"time"

	"github.com/alexanderramin/moneyplan/internal/graphql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Plan options
type PlanOption func(*graphql.Plan)

func WithNotes(notes string) PlanOption {
	return func(p *graphql.Plan) { p.Notes = notes }
}

func Committed() PlanOption {
	return func(p *graphql.Plan) { p.IsCommitted = true }
}

func Archived() PlanOption {
	return func(p *graphql.Plan) {
		p.IsCommitted = true
		p.IsArchived = true
		at := time.Now().UTC().Format(time.RFC3339)
		p.ArchivedAt = &at
	}
}

func WithPlanDate(date string) PlanOption {
	return func(p *graphql.Plan) { p.PlanDate = &date }
}

// WithAccount adds a plan account holding the given buckets.
func WithAccount(planAccountID, accountName string, buckets ...*graphql.Bucket) PlanOption {
	return func(p *graphql.Plan) {
		p.Accounts = append(p.Accounts, &graphql.PlanAccount{
			ID:      planAccountID,
			Account: graphql.Account{ID: "acct-" + planAccountID, Name: accountName},
			Buckets: buckets,
		})
	}
}

// WithChecked sets the checked flag of an account added earlier.
func WithChecked(planAccountID string, checked bool) PlanOption {
	return func(p *graphql.Plan) {
		if pa := p.FindAccount(planAccountID); pa != nil {
			pa.IsChecked = checked
		}
	}
}

// NewTestPlan builds a draft plan in wire form.
func NewTestPlan(id, initialBalance string, opts ...PlanOption) *graphql.Plan {
	balance := decimal.RequireFromString(initialBalance)
	p := &graphql.Plan{
		ID:               id,
		InitialBalance:   balance,
		RemainingBalance: balance,
		CreatedAt:        time.Now().UTC().Format(time.RFC3339),
	}
	for _, opt := range opts {
		opt(p)
	}
	allocated := decimal.Zero
	for _, pa := range p.Accounts {
		for _, b := range pa.Buckets {
			allocated = allocated.Add(b.AllocatedAmount)
		}
	}
	p.RemainingBalance = balance.Sub(allocated)
	return p
}

func NewTestBucket(name, category, amount string) *graphql.Bucket {
	return &graphql.Bucket{
		ID:              uuid.New().String(),
		Name:            name,
		Category:        category,
		AllocatedAmount: decimal.RequireFromString(amount),
	}
}

func NewTestAccount(id, name string) graphql.Account {
	return graphql.Account{ID: id, Name: name}
}

// PlanResult wraps data in the success variant of a moneyPlan mutation.
func PlanResult(field, message string, data any) map[string]any {
	return map[string]any{"moneyPlan": map[string]any{field: map[string]any{
		"__typename": "MoneyPlanSuccess",
		"message":    message,
		"data":       data,
	}}}
}

// NamespacedResult wraps a union payload at data.<namespace>.<field>.
func NamespacedResult(namespace, field string, payload map[string]any) map[string]any {
	return map[string]any{namespace: map[string]any{field: payload}}
}

func SuccessPayload(typename, message string, data any) map[string]any {
	return map[string]any{"__typename": typename, "message": message, "data": data}
}

func AppErrorPayload(message string) map[string]any {
	return map[string]any{"__typename": "ApplicationError", "message": message}
}
