package service

import (
	"context"
	"time"

	"github.com/alexanderramin/moneyplan/internal/domain"
	"github.com/alexanderramin/moneyplan/internal/graphql"
	"github.com/alexanderramin/moneyplan/internal/pagination"
	"github.com/alexanderramin/moneyplan/internal/session"
	"github.com/alexanderramin/moneyplan/internal/share"
	"github.com/shopspring/decimal"
)

// GraphQL is the part of *graphql.Client the services use.
type GraphQL interface {
	graphql.Mutator
	Query(ctx context.Context, req graphql.Request, out any) error
	Refetch(ctx context.Context, req graphql.Request, out any) error
	ReadQuery(req graphql.Request, out any) (bool, error)
	WriteQuery(req graphql.Request, value any) error
	Evict(req graphql.Request)
	Purge()
}

// SessionManager is the part of *session.Manager AuthService drives.
type SessionManager interface {
	Establish(ctx context.Context, token string, user domain.User) (*session.Credential, error)
	Logout(ctx context.Context) error
	IsAuthenticated() bool
	Current() *session.Credential
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Logout(ctx context.Context) error
	IsAuthenticated() bool
	Current() *domain.User
	Me(ctx context.Context) (*domain.User, error)
}

type CreateAccountInput struct {
	Name  string
	Notes string
}

// UpdateAccountInput changes only the fields that are set.
type UpdateAccountInput struct {
	Name  *string
	Notes *string
}

type AccountService interface {
	List(ctx context.Context) ([]*domain.Account, error)
	Create(ctx context.Context, in CreateAccountInput) (*domain.Account, error)
	Update(ctx context.Context, id string, in UpdateAccountInput) (*domain.Account, error)
	Page(ctx context.Context, p *pagination.Paginator) ([]*domain.Account, error)
}

type CreatePlanInput struct {
	InitialBalance decimal.Decimal
	Notes          string
	PlanDate       *time.Time
	CopyFrom       string
}

type PlanService interface {
	List(ctx context.Context) ([]*domain.Plan, error)
	Draft(ctx context.Context) (*domain.Plan, error)
	Get(ctx context.Context, id string) (*domain.Plan, error)

	CreatePlan(ctx context.Context, in CreatePlanInput) (*domain.Plan, error)
	UpdatePlan(ctx context.Context, planID string, adjustment decimal.Decimal, reason string) (*domain.Plan, error)
	// CommitPlan reports failures through the notifier and returns nil.
	CommitPlan(ctx context.Context, planID string) *domain.Plan
	ArchivePlan(ctx context.Context, planID string) (*domain.Plan, error)

	AddAccountToPlan(ctx context.Context, planID, accountID string) (*domain.Plan, error)
	UpdatePlanAccount(ctx context.Context, planID, planAccountID string, buckets []*domain.Bucket) (*domain.Plan, error)
	RemoveAccountFromPlan(ctx context.Context, planID, planAccountID string) (*domain.Plan, error)
	UpdatePlanAccountNotes(ctx context.Context, planID, planAccountID, notes string) (*domain.Plan, error)
	UpdatePlanNotes(ctx context.Context, planID, notes string) (*domain.Plan, error)

	SetAccountCheckedState(ctx context.Context, planID, planAccountID string, checked bool) error
	IsCheckingAccount(planAccountID string) bool

	CreateShareLink(ctx context.Context, planID string, expiryDays int) (*domain.ShareLink, error)
	SharePlan(ctx context.Context, n share.Notification) error
}
