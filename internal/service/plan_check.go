package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/moneyplan/internal/graphql"
	"github.com/alexanderramin/moneyplan/internal/notify"
)

// SetAccountCheckedState flips the checked flag of a plan account. The new
// value is written into the cached plan before the request is sent, so
// readers see it immediately; IsCheckingAccount reports true until the
// write settles.
func (s *planService) SetAccountCheckedState(ctx context.Context, planID, planAccountID string, checked bool) (err error) {
	defer observe(ctx, s.observer, "set-account-checked-state", map[string]any{
		"plan_id":         planID,
		"plan_account_id": planAccountID,
		"checked":         checked,
	})(&err)

	var current planResponse
	if err = s.gql.Query(ctx, planRequest(planID), &current); err != nil {
		return s.report.fail(ctx, "load the plan", err)
	}
	if current.MoneyPlan == nil || current.MoneyPlan.FindAccount(planAccountID) == nil {
		err = fmt.Errorf("plan account %s not found in plan %s", planAccountID, planID)
		return err
	}
	previous := current.MoneyPlan.FindAccount(planAccountID).IsChecked

	tk, err := s.checks.Begin(planAccountID, previous, checked)
	if err != nil {
		return err
	}
	s.writeChecked(ctx, planID, planAccountID, checked)

	out, err := graphql.Execute[*graphql.Plan](ctx, s.gql, graphql.SetAccountCheckedStateOp, map[string]any{
		"planId":        planID,
		"planAccountId": planAccountID,
		"isChecked":     checked,
	})
	if err != nil {
		s.report.toastFailure(ctx, "update the account", err)
		if restored, rbErr := s.checks.Rollback(tk); rbErr == nil {
			s.writeChecked(ctx, planID, planAccountID, restored)
		}
		if graphql.IsApplicationError(err) {
			return notify.Reported(err)
		}
		return notify.Reported(fmt.Errorf("setting checked state: %w", err))
	}

	s.report.succeed(ctx, out.Message, "Account updated")
	if err := s.checks.Reconcile(tk); err != nil {
		return err
	}

	var fresh planResponse
	confirmed := checked
	if rerr := s.gql.Refetch(ctx, planRequest(planID), &fresh); rerr != nil {
		s.logger.WarnContext(ctx, "refetch after checked state failed", "plan_id", planID, "error", rerr)
		s.gql.Evict(planRequest(planID))
	} else if fresh.MoneyPlan != nil {
		if pa := fresh.MoneyPlan.FindAccount(planAccountID); pa != nil {
			confirmed = pa.IsChecked
		}
	}
	s.settleChecked(ctx, planID, planAccountID, confirmed)
	return s.checks.Confirm(tk, confirmed)
}

func (s *planService) IsCheckingAccount(planAccountID string) bool {
	return s.checks.Pending(planAccountID)
}

// writeChecked rewrites the cached plan detail, and the cached draft when it
// is the same plan, with the given checked value.
func (s *planService) writeChecked(ctx context.Context, planID, planAccountID string, checked bool) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.rewriteDetail(ctx, planID, map[string]bool{planAccountID: checked})
	s.rewriteDraft(ctx, planID, map[string]bool{planAccountID: checked})
}

// settleChecked runs after the plan detail was refetched. The draft takes
// the confirmed value, and other toggles still in flight are laid back over
// the fresh detail so the refetch does not hide them.
func (s *planService) settleChecked(ctx context.Context, planID, planAccountID string, confirmed bool) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	pending := map[string]bool{}
	for _, key := range s.checks.InFlight() {
		if key == planAccountID {
			continue
		}
		if v, _, ok := s.checks.Get(key); ok {
			pending[key] = v
		}
	}
	s.rewriteDetail(ctx, planID, pending)

	pending[planAccountID] = confirmed
	s.rewriteDraft(ctx, planID, pending)
}

// rewriteDetail and rewriteDraft set IsChecked on the listed plan accounts
// of one cached entry. s.cacheMu must be held.
func (s *planService) rewriteDetail(ctx context.Context, planID string, checked map[string]bool) {
	var detail planResponse
	ok, err := s.gql.ReadQuery(planRequest(planID), &detail)
	if err != nil || !ok || detail.MoneyPlan == nil || !applyChecked(detail.MoneyPlan, checked) {
		return
	}
	if err := s.gql.WriteQuery(planRequest(planID), detail); err != nil {
		s.logger.WarnContext(ctx, "writing cached plan", "plan_id", planID, "error", err)
	}
}

func (s *planService) rewriteDraft(ctx context.Context, planID string, checked map[string]bool) {
	var draft draftResponse
	ok, err := s.gql.ReadQuery(draftRequest(), &draft)
	if err != nil || !ok || draft.DraftMoneyPlan == nil || draft.DraftMoneyPlan.ID != planID {
		return
	}
	if !applyChecked(draft.DraftMoneyPlan, checked) {
		return
	}
	if err := s.gql.WriteQuery(draftRequest(), draft); err != nil {
		s.logger.WarnContext(ctx, "writing cached draft", "plan_id", planID, "error", err)
	}
}

func applyChecked(p *graphql.Plan, checked map[string]bool) bool {
	changed := false
	for id, v := range checked {
		if pa := p.FindAccount(id); pa != nil {
			pa.IsChecked = v
			changed = true
		}
	}
	return changed
}
