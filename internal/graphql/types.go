package graphql

import "github.com/shopspring/decimal"

// Wire shapes of the API objects. Dates stay strings here; the service
// layer parses them into domain values.

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type AuthPayload struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type Account struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Notes string `json:"notes"`
}

type Bucket struct {
	ID              string          `json:"id,omitempty"`
	Name            string          `json:"name"`
	Category        string          `json:"category"`
	AllocatedAmount decimal.Decimal `json:"allocatedAmount"`
}

type PlanAccount struct {
	ID        string    `json:"id"`
	IsChecked bool      `json:"isChecked"`
	Notes     string    `json:"notes"`
	Account   Account   `json:"account"`
	Buckets   []*Bucket `json:"buckets"`
}

type Plan struct {
	ID               string          `json:"id"`
	InitialBalance   decimal.Decimal `json:"initialBalance"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
	Notes            string          `json:"notes"`
	IsCommitted      bool            `json:"isCommitted"`
	IsArchived       bool            `json:"isArchived"`
	CreatedAt        string          `json:"createdAt"`
	PlanDate         *string         `json:"planDate"`
	ArchivedAt       *string         `json:"archivedAt"`
	Accounts         []*PlanAccount  `json:"accounts"`
}

// FindAccount returns the plan account with the given ID, or nil.
func (p *Plan) FindAccount(planAccountID string) *PlanAccount {
	for _, pa := range p.Accounts {
		if pa.ID == planAccountID {
			return pa
		}
	}
	return nil
}

type ShareLink struct {
	URL       string `json:"url"`
	ExpiresAt string `json:"expiresAt"`
}
