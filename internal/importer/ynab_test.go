package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/alexanderramin/moneyplan/internal/domain"
	"github.com/alexanderramin/moneyplan/internal/pagination"
	"github.com/alexanderramin/moneyplan/internal/service"
	"github.com/brunomvsouza/ynab.go/api/account"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccounts struct {
	accounts []*domain.Account
	failOn   string
}

func (f *fakeAccounts) List(context.Context) ([]*domain.Account, error) {
	return append([]*domain.Account(nil), f.accounts...), nil
}

func (f *fakeAccounts) Create(_ context.Context, in service.CreateAccountInput) (*domain.Account, error) {
	if in.Name == f.failOn {
		return nil, errors.New("server unavailable")
	}
	a := &domain.Account{ID: fmt.Sprintf("a%d", len(f.accounts)+1), Name: in.Name, Notes: in.Notes}
	f.accounts = append(f.accounts, a)
	return a, nil
}

func (f *fakeAccounts) Update(context.Context, string, service.UpdateAccountInput) (*domain.Account, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAccounts) Page(ctx context.Context, p *pagination.Paginator) ([]*domain.Account, error) {
	all, _ := f.List(ctx)
	return pagination.Items(p, all), nil
}

func staticLister(accounts ...*account.Account) AccountLister {
	return func(string) ([]*account.Account, error) { return accounts, nil }
}

func TestYNABImporter_CreatesMissingOpenAccounts(t *testing.T) {
	note := "joint account"
	local := &fakeAccounts{accounts: []*domain.Account{{ID: "a1", Name: "checking"}}}
	imp := NewYNABImporter(staticLister(
		&account.Account{ID: "y1", Name: "Checking"},
		&account.Account{ID: "y2", Name: "Savings", Note: &note},
		&account.Account{ID: "y3", Name: "Old card", Closed: true},
		&account.Account{ID: "y4", Name: "Gone", Deleted: true},
		&account.Account{ID: "y5", Name: "SAVINGS"},
	), local, slog.New(slog.DiscardHandler))

	res, err := imp.Import(context.Background(), "budget-1")
	require.NoError(t, err)

	require.Len(t, res.Created, 1)
	assert.Equal(t, "Savings", res.Created[0].Name)
	assert.Equal(t, "joint account", res.Created[0].Notes)

	reasons := map[string]string{}
	for _, s := range res.Skipped {
		reasons[s.Name] = s.Reason
	}
	assert.Equal(t, `An account named "Checking" already exists`, reasons["Checking"])
	assert.Equal(t, "closed in YNAB", reasons["Old card"])
	assert.Equal(t, "deleted in YNAB", reasons["Gone"])
	assert.Equal(t, `An account named "SAVINGS" already exists`, reasons["SAVINGS"], "accounts created earlier in the run count")
}

func TestYNABImporter_RequiresBudget(t *testing.T) {
	imp := NewYNABImporter(staticLister(), &fakeAccounts{}, nil)
	_, err := imp.Import(context.Background(), " ")
	assert.ErrorIs(t, err, ErrNoBudget)
}

func TestYNABImporter_ListError(t *testing.T) {
	imp := NewYNABImporter(func(string) ([]*account.Account, error) {
		return nil, errors.New("401 unauthorized")
	}, &fakeAccounts{}, nil)

	_, err := imp.Import(context.Background(), "budget-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing YNAB accounts")
}

func TestYNABImporter_StopsOnCreateFailure(t *testing.T) {
	imp := NewYNABImporter(staticLister(
		&account.Account{ID: "y1", Name: "Checking"},
		&account.Account{ID: "y2", Name: "Savings"},
		&account.Account{ID: "y3", Name: "Brokerage"},
	), &fakeAccounts{failOn: "Savings"}, nil)

	res, err := imp.Import(context.Background(), "budget-1")
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Len(t, res.Created, 1, "accounts created before the failure are reported")
}
