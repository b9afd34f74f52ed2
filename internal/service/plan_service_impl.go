package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alexanderramin/moneyplan/internal/domain"
	"github.com/alexanderramin/moneyplan/internal/graphql"
	"github.com/alexanderramin/moneyplan/internal/notify"
	"github.com/alexanderramin/moneyplan/internal/optimistic"
	"github.com/alexanderramin/moneyplan/internal/share"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type planService struct {
	gql      GraphQL
	mailer   share.Mailer
	checks   *optimistic.Tracker[string, bool]
	// cacheMu serialises read-modify-write of cached plans.
	cacheMu  sync.Mutex
	report   reporter
	logger   *slog.Logger
	observer UseCaseObserver
}

func NewPlanService(
	gql GraphQL,
	notifier notify.Notifier,
	mailer share.Mailer,
	logger *slog.Logger,
	observers ...UseCaseObserver,
) PlanService {
	if mailer == nil {
		mailer = share.DisabledMailer{}
	}
	r := newReporter(notifier, logger)
	return &planService{
		gql:      gql,
		mailer:   mailer,
		checks:   optimistic.NewTracker[string, bool](),
		report:   r,
		logger:   r.logger,
		observer: useCaseObserverOrNoop(observers),
	}
}

type draftResponse struct {
	DraftMoneyPlan *graphql.Plan `json:"draftMoneyPlan"`
}

type plansResponse struct {
	MoneyPlans []*graphql.Plan `json:"moneyPlans"`
}

type planResponse struct {
	MoneyPlan *graphql.Plan `json:"moneyPlan"`
}

func draftRequest() graphql.Request { return graphql.DraftMoneyPlanOp.Request(nil) }
func plansRequest() graphql.Request { return graphql.MoneyPlansOp.Request(nil) }
func planRequest(id string) graphql.Request {
	return graphql.MoneyPlanOp.Request(map[string]any{"id": id})
}

// refetchSet names the cached queries a mutation invalidates.
type refetchSet uint8

const (
	refetchDraft refetchSet = 1 << iota
	refetchList
)

func (s *planService) List(ctx context.Context) ([]*domain.Plan, error) {
	var resp plansResponse
	if err := s.gql.Query(ctx, plansRequest(), &resp); err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	return toDomainPlans(resp.MoneyPlans), nil
}

func (s *planService) Draft(ctx context.Context) (*domain.Plan, error) {
	var resp draftResponse
	if err := s.gql.Query(ctx, draftRequest(), &resp); err != nil {
		return nil, fmt.Errorf("loading draft plan: %w", err)
	}
	return toDomainPlan(resp.DraftMoneyPlan), nil
}

func (s *planService) Get(ctx context.Context, id string) (*domain.Plan, error) {
	var resp planResponse
	if err := s.gql.Query(ctx, planRequest(id), &resp); err != nil {
		return nil, fmt.Errorf("loading plan %s: %w", id, err)
	}
	if resp.MoneyPlan == nil {
		return nil, fmt.Errorf("plan %s not found", id)
	}
	return toDomainPlan(resp.MoneyPlan), nil
}

func (s *planService) CreatePlan(ctx context.Context, in CreatePlanInput) (plan *domain.Plan, err error) {
	defer observe(ctx, s.observer, "create-plan", map[string]any{
		"initial_balance": in.InitialBalance.String(),
	})(&err)

	if err = domain.ValidateInitialBalance(in.InitialBalance); err != nil {
		return nil, err
	}
	input := map[string]any{
		"initialBalance": in.InitialBalance.String(),
		"notes":          in.Notes,
	}
	if in.PlanDate != nil {
		input["planDate"] = in.PlanDate.Format("2006-01-02")
	}
	if in.CopyFrom != "" {
		input["copyFromPlanId"] = in.CopyFrom
	}

	plan, msg, err := s.mutatePlan(ctx, graphql.StartPlanOp, map[string]any{"input": input})
	if err != nil {
		return nil, s.report.fail(ctx, "create the plan", err)
	}
	s.refetch(ctx, "", refetchDraft|refetchList)
	s.report.succeed(ctx, msg, "Plan created")
	return plan, nil
}

func (s *planService) UpdatePlan(ctx context.Context, planID string, adjustment decimal.Decimal, reason string) (plan *domain.Plan, err error) {
	defer observe(ctx, s.observer, "adjust-plan-balance", map[string]any{
		"plan_id":    planID,
		"adjustment": adjustment.String(),
	})(&err)

	vars := map[string]any{"planId": planID, "adjustment": adjustment.String()}
	if reason != "" {
		vars["reason"] = reason
	}
	plan, msg, err := s.mutatePlan(ctx, graphql.AdjustPlanBalanceOp, vars)
	if err != nil {
		return nil, s.report.fail(ctx, "adjust the plan balance", err)
	}
	s.refetch(ctx, planID, refetchDraft)
	s.report.succeed(ctx, msg, "Plan balance updated")
	return plan, nil
}

func (s *planService) CommitPlan(ctx context.Context, planID string) *domain.Plan {
	var err error
	defer observe(ctx, s.observer, "commit-plan", map[string]any{"plan_id": planID})(&err)

	plan, msg, err := s.mutatePlan(ctx, graphql.CommitPlanOp, map[string]any{"planId": planID})
	if err != nil {
		s.report.toastFailure(ctx, "commit the plan", err)
		return nil
	}
	s.refetch(ctx, planID, refetchDraft|refetchList)
	s.report.succeed(ctx, msg, "Plan committed")
	return plan
}

func (s *planService) ArchivePlan(ctx context.Context, planID string) (plan *domain.Plan, err error) {
	defer observe(ctx, s.observer, "archive-plan", map[string]any{"plan_id": planID})(&err)

	plan, msg, err := s.mutatePlan(ctx, graphql.ArchivePlanOp, map[string]any{"planId": planID})
	if err != nil {
		return nil, s.report.fail(ctx, "archive the plan", err)
	}
	s.refetch(ctx, planID, refetchDraft|refetchList)
	s.report.succeed(ctx, msg, "Plan archived")
	return plan, nil
}

func (s *planService) AddAccountToPlan(ctx context.Context, planID, accountID string) (plan *domain.Plan, err error) {
	defer observe(ctx, s.observer, "add-account", map[string]any{
		"plan_id":    planID,
		"account_id": accountID,
	})(&err)

	plan, msg, err := s.mutatePlan(ctx, graphql.AddAccountOp, map[string]any{
		"planId":    planID,
		"accountId": accountID,
	})
	if err != nil {
		return nil, s.report.fail(ctx, "add the account", err)
	}
	s.refetch(ctx, planID, refetchDraft)
	s.report.succeed(ctx, msg, "Account added to plan")
	return plan, nil
}

// UpdatePlanAccount replaces the bucket configuration of one plan account.
// Duplicate bucket names are rejected before anything is sent.
func (s *planService) UpdatePlanAccount(ctx context.Context, planID, planAccountID string, buckets []*domain.Bucket) (plan *domain.Plan, err error) {
	defer observe(ctx, s.observer, "change-account-configuration", map[string]any{
		"plan_id":         planID,
		"plan_account_id": planAccountID,
		"buckets":         len(buckets),
	})(&err)

	if err = domain.ValidateBucketNames(buckets); err != nil {
		return nil, err
	}
	for _, b := range buckets {
		if !b.Category.Valid() {
			err = fmt.Errorf("bucket %q has unknown category %q", b.Name, b.Category)
			return nil, err
		}
	}

	plan, msg, err := s.mutatePlan(ctx, graphql.ChangeAccountConfigurationOp, map[string]any{
		"planId":        planID,
		"planAccountId": planAccountID,
		"buckets":       bucketInputs(buckets),
	})
	if err != nil {
		return nil, s.report.fail(ctx, "save the buckets", err)
	}
	s.refetch(ctx, planID, refetchDraft)
	s.report.succeed(ctx, msg, "Buckets saved")
	return plan, nil
}

func (s *planService) RemoveAccountFromPlan(ctx context.Context, planID, planAccountID string) (plan *domain.Plan, err error) {
	defer observe(ctx, s.observer, "remove-account", map[string]any{
		"plan_id":         planID,
		"plan_account_id": planAccountID,
	})(&err)

	plan, msg, err := s.mutatePlan(ctx, graphql.RemoveAccountOp, map[string]any{
		"planId":        planID,
		"planAccountId": planAccountID,
	})
	if err != nil {
		return nil, s.report.fail(ctx, "remove the account", err)
	}
	s.refetch(ctx, planID, refetchDraft)
	s.report.succeed(ctx, msg, "Account removed from plan")
	return plan, nil
}

func (s *planService) UpdatePlanAccountNotes(ctx context.Context, planID, planAccountID, notes string) (plan *domain.Plan, err error) {
	defer observe(ctx, s.observer, "edit-account-notes", map[string]any{
		"plan_id":         planID,
		"plan_account_id": planAccountID,
	})(&err)

	plan, msg, err := s.mutatePlan(ctx, graphql.EditAccountNotesOp, map[string]any{
		"planId":        planID,
		"planAccountId": planAccountID,
		"notes":         notes,
	})
	if err != nil {
		return nil, s.report.fail(ctx, "save the account notes", err)
	}
	s.refetch(ctx, planID, refetchDraft)
	s.report.succeed(ctx, msg, "Notes saved")
	return plan, nil
}

func (s *planService) UpdatePlanNotes(ctx context.Context, planID, notes string) (plan *domain.Plan, err error) {
	defer observe(ctx, s.observer, "edit-plan-notes", map[string]any{"plan_id": planID})(&err)

	plan, msg, err := s.mutatePlan(ctx, graphql.EditPlanNotesOp, map[string]any{
		"planId": planID,
		"notes":  notes,
	})
	if err != nil {
		return nil, s.report.fail(ctx, "save the plan notes", err)
	}
	s.refetch(ctx, planID, refetchDraft)
	s.report.succeed(ctx, msg, "Notes saved")
	return plan, nil
}

func (s *planService) CreateShareLink(ctx context.Context, planID string, expiryDays int) (link *domain.ShareLink, err error) {
	if expiryDays <= 0 {
		expiryDays = domain.DefaultShareExpiryDays
	}
	defer observe(ctx, s.observer, "create-share-link", map[string]any{
		"plan_id":     planID,
		"expiry_days": expiryDays,
	})(&err)

	out, err := graphql.Execute[*graphql.ShareLink](ctx, s.gql, graphql.CreateShareLinkOp, map[string]any{
		"planId":     planID,
		"expiryDays": expiryDays,
	})
	if err != nil {
		return nil, s.report.fail(ctx, "create a share link", err)
	}
	if out.Data == nil {
		err = fmt.Errorf("%w: share link missing from response", graphql.ErrUnexpectedResult)
		return nil, s.report.fail(ctx, "create a share link", err)
	}
	return toDomainShareLink(out.Data), nil
}

func (s *planService) SharePlan(ctx context.Context, n share.Notification) (err error) {
	defer observe(ctx, s.observer, "share-plan", map[string]any{"recipient": n.RecipientEmail})(&err)

	if err = n.Validate(); err != nil {
		return err
	}
	if err = s.mailer.Send(ctx, n); err != nil {
		s.logger.ErrorContext(ctx, "sending share email", "recipient", n.RecipientEmail, "error", err)
		notify.Error(ctx, s.report.notifier, "Could not send the share email. Copy the link instead.")
		return notify.Reported(fmt.Errorf("sharing plan: %w", err))
	}
	notify.Success(ctx, s.report.notifier, fmt.Sprintf("Plan shared with %s", n.RecipientEmail))
	return nil
}

func (s *planService) mutatePlan(ctx context.Context, op graphql.Operation, vars map[string]any) (*domain.Plan, string, error) {
	out, err := graphql.Execute[*graphql.Plan](ctx, s.gql, op, vars)
	if err != nil {
		return nil, "", err
	}
	return toDomainPlan(out.Data), out.Message, nil
}

// refetch reloads the queries in set concurrently and waits for all of them.
// The plan detail entry of planID is dropped so its next read goes to the
// network. A failed refetch leaves its entry evicted instead of stale.
func (s *planService) refetch(ctx context.Context, planID string, set refetchSet) {
	if planID != "" {
		s.gql.Evict(planRequest(planID))
	}

	g, gctx := errgroup.WithContext(ctx)
	if set&refetchDraft != 0 {
		g.Go(func() error {
			if err := s.gql.Refetch(gctx, draftRequest(), &draftResponse{}); err != nil {
				s.gql.Evict(draftRequest())
				return fmt.Errorf("refetching draft plan: %w", err)
			}
			return nil
		})
	}
	if set&refetchList != 0 {
		g.Go(func() error {
			if err := s.gql.Refetch(gctx, plansRequest(), &plansResponse{}); err != nil {
				s.gql.Evict(plansRequest())
				return fmt.Errorf("refetching plan list: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.WarnContext(ctx, "refetch after mutation failed", "error", err)
	}
}
