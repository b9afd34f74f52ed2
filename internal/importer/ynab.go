package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alexanderramin/moneyplan/internal/domain"
	"github.com/alexanderramin/moneyplan/internal/service"
	"github.com/brunomvsouza/ynab.go"
	"github.com/brunomvsouza/ynab.go/api/account"
)

// ErrNoBudget is returned when no YNAB budget ID is configured.
var ErrNoBudget = errors.New("no YNAB budget configured: set ynab.budget_id or pass --budget")

// AccountLister returns the accounts of one YNAB budget.
type AccountLister func(budgetID string) ([]*account.Account, error)

// NewYNABLister lists accounts with the YNAB API client.
func NewYNABLister(token string) AccountLister {
	client := ynab.NewClient(token)
	return func(budgetID string) ([]*account.Account, error) {
		snapshot, err := client.Account().GetAccounts(budgetID, nil)
		if err != nil {
			return nil, err
		}
		return snapshot.Accounts, nil
	}
}

type Skipped struct {
	Name   string
	Reason string
}

type YNABResult struct {
	Created []*domain.Account
	Skipped []Skipped
}

// YNABImporter creates local accounts for the open accounts of a YNAB
// budget that do not exist yet.
type YNABImporter struct {
	list     AccountLister
	accounts service.AccountService
	logger   *slog.Logger
}

func NewYNABImporter(list AccountLister, accounts service.AccountService, logger *slog.Logger) *YNABImporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &YNABImporter{list: list, accounts: accounts, logger: logger}
}

func (i *YNABImporter) Import(ctx context.Context, budgetID string) (*YNABResult, error) {
	if strings.TrimSpace(budgetID) == "" {
		return nil, ErrNoBudget
	}
	remote, err := i.list(budgetID)
	if err != nil {
		return nil, fmt.Errorf("listing YNAB accounts: %w", err)
	}
	existing, err := i.accounts.List(ctx)
	if err != nil {
		return nil, err
	}

	result := &YNABResult{}
	for _, ra := range remote {
		if ra == nil {
			continue
		}
		switch {
		case ra.Deleted:
			result.Skipped = append(result.Skipped, Skipped{Name: ra.Name, Reason: "deleted in YNAB"})
			continue
		case ra.Closed:
			result.Skipped = append(result.Skipped, Skipped{Name: ra.Name, Reason: "closed in YNAB"})
			continue
		}
		if err := domain.ValidateNewAccountName(ra.Name, existing); err != nil {
			result.Skipped = append(result.Skipped, Skipped{Name: ra.Name, Reason: err.Error()})
			continue
		}

		notes := ""
		if ra.Note != nil {
			notes = *ra.Note
		}
		created, err := i.accounts.Create(ctx, service.CreateAccountInput{Name: ra.Name, Notes: notes})
		if err != nil {
			return result, fmt.Errorf("creating account %q: %w", ra.Name, err)
		}
		i.logger.InfoContext(ctx, "imported YNAB account", "name", created.Name, "ynab_id", ra.ID)
		result.Created = append(result.Created, created)
		existing = append(existing, created)
	}
	return result, nil
}
