package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/moneyplan/internal/domain"
)

// matchID resolves input against candidates: exact ID, then exact name
// (case-insensitive), then unique ID prefix.
func matchID(kind, input string, ids, names []string) (int, error) {
	if input == "" {
		return -1, fmt.Errorf("%s ID is required", kind)
	}
	for i, id := range ids {
		if id == input {
			return i, nil
		}
	}
	for i, name := range names {
		if name != "" && strings.EqualFold(strings.TrimSpace(name), strings.TrimSpace(input)) {
			return i, nil
		}
	}
	var matches []int
	for i, id := range ids {
		if strings.HasPrefix(id, input) {
			matches = append(matches, i)
		}
	}
	switch len(matches) {
	case 0:
		return -1, fmt.Errorf("%s not found: %q", kind, input)
	case 1:
		return matches[0], nil
	default:
		return -1, fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", kind, input, len(matches))
	}
}

func resolvePlan(ctx context.Context, app *App, input string) (*domain.Plan, error) {
	plans, err := app.Plans.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(plans))
	for i, p := range plans {
		ids[i] = p.ID
	}
	i, err := matchID("plan", input, ids, nil)
	if err != nil {
		return nil, err
	}
	return plans[i], nil
}

func resolveAccount(ctx context.Context, app *App, input string) (*domain.Account, error) {
	accounts, err := app.Accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(accounts))
	names := make([]string, len(accounts))
	for i, a := range accounts {
		ids[i] = a.ID
		names[i] = a.Name
	}
	i, err := matchID("account", input, ids, names)
	if err != nil {
		return nil, err
	}
	return accounts[i], nil
}

// resolvePlanAccount finds a plan account by its ID, ID prefix, or the
// name of the account it holds.
func resolvePlanAccount(p *domain.Plan, input string) (*domain.PlanAccount, error) {
	ids := make([]string, len(p.Accounts))
	names := make([]string, len(p.Accounts))
	for i, pa := range p.Accounts {
		ids[i] = pa.ID
		names[i] = pa.Account.Name
	}
	i, err := matchID("plan account", input, ids, names)
	if err != nil {
		return nil, err
	}
	return p.Accounts[i], nil
}
