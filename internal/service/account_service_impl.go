package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alexanderramin/moneyplan/internal/domain"
	"github.com/alexanderramin/moneyplan/internal/graphql"
	"github.com/alexanderramin/moneyplan/internal/notify"
	"github.com/alexanderramin/moneyplan/internal/pagination"
)

type accountService struct {
	gql      GraphQL
	report   reporter
	observer UseCaseObserver
}

func NewAccountService(gql GraphQL, notifier notify.Notifier, logger *slog.Logger, observers ...UseCaseObserver) AccountService {
	return &accountService{
		gql:      gql,
		report:   newReporter(notifier, logger),
		observer: useCaseObserverOrNoop(observers),
	}
}

type accountsResponse struct {
	Accounts []*graphql.Account `json:"accounts"`
}

func accountsRequest() graphql.Request { return graphql.AccountsOp.Request(nil) }

func (s *accountService) List(ctx context.Context) ([]*domain.Account, error) {
	var resp accountsResponse
	if err := s.gql.Query(ctx, accountsRequest(), &resp); err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	out := make([]*domain.Account, 0, len(resp.Accounts))
	for _, a := range resp.Accounts {
		out = append(out, toDomainAccount(a))
	}
	return out, nil
}

func (s *accountService) Create(ctx context.Context, in CreateAccountInput) (acct *domain.Account, err error) {
	defer observe(ctx, s.observer, "create-account", map[string]any{"name": in.Name})(&err)

	existing, err := s.List(ctx)
	if err != nil {
		return nil, s.report.fail(ctx, "load your accounts", err)
	}
	if err = domain.ValidateNewAccountName(in.Name, existing); err != nil {
		return nil, err
	}

	out, err := graphql.Execute[*graphql.Account](ctx, s.gql, graphql.CreateAccountOp, map[string]any{
		"input": map[string]any{
			"name":  strings.TrimSpace(in.Name),
			"notes": in.Notes,
		},
	})
	if err != nil {
		return nil, s.report.fail(ctx, "create the account", err)
	}
	s.refetchList(ctx)
	s.report.succeed(ctx, out.Message, "Account created")
	return toDomainAccount(out.Data), nil
}

func (s *accountService) Update(ctx context.Context, id string, in UpdateAccountInput) (acct *domain.Account, err error) {
	defer observe(ctx, s.observer, "update-account", map[string]any{"account_id": id})(&err)

	input := map[string]any{}
	if in.Name != nil {
		existing, err := s.List(ctx)
		if err != nil {
			return nil, s.report.fail(ctx, "load your accounts", err)
		}
		if err := domain.ValidateRenamedAccount(id, *in.Name, existing); err != nil {
			return nil, err
		}
		input["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Notes != nil {
		input["notes"] = *in.Notes
	}
	if len(input) == 0 {
		err = fmt.Errorf("nothing to update for account %s", id)
		return nil, err
	}

	out, err := graphql.Execute[*graphql.Account](ctx, s.gql, graphql.UpdateAccountOp, map[string]any{
		"id":    id,
		"input": input,
	})
	if err != nil {
		return nil, s.report.fail(ctx, "update the account", err)
	}
	s.refetchList(ctx)
	s.report.succeed(ctx, out.Message, "Account updated")
	return toDomainAccount(out.Data), nil
}

// Page returns the window of the full account list selected by p. The list
// is fetched once; p's total is updated and its state clamped to range.
func (s *accountService) Page(ctx context.Context, p *pagination.Paginator) ([]*domain.Account, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	p.SetTotal(len(all))
	if err := p.Sync(); err != nil {
		return nil, fmt.Errorf("syncing page: %w", err)
	}
	return pagination.Items(p, all), nil
}

func (s *accountService) refetchList(ctx context.Context) {
	if err := s.gql.Refetch(ctx, accountsRequest(), &accountsResponse{}); err != nil {
		s.report.logger.WarnContext(ctx, "refetching accounts failed", "error", err)
		s.gql.Evict(accountsRequest())
	}
}
