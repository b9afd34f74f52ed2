package service

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/alexanderramin/moneyplan/internal/graphql"
	"github.com/alexanderramin/moneyplan/internal/notify"
	"github.com/alexanderramin/moneyplan/internal/share"
	"github.com/alexanderramin/moneyplan/internal/testutil"
)

type harness struct {
	api    *testutil.FakeAPI
	gql    *graphql.Client
	toasts *notify.Recorder
	token  *testutil.StaticToken
	logger *slog.Logger
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	api := testutil.NewFakeAPI(t)
	token := &testutil.StaticToken{Value: "test-token"}
	return &harness{
		api:    api,
		gql:    testutil.NewTestGraphQLClient(api, token),
		toasts: &notify.Recorder{},
		token:  token,
		logger: slog.New(slog.DiscardHandler),
	}
}

func (h *harness) planService(mailer share.Mailer) *planService {
	return NewPlanService(h.gql, h.toasts, mailer, h.logger).(*planService)
}

func (h *harness) accountService() AccountService {
	return NewAccountService(h.gql, h.toasts, h.logger)
}

// recordingMailer keeps every notification it was asked to send.
type recordingMailer struct {
	mu   sync.Mutex
	sent []share.Notification
	err  error
}

func (m *recordingMailer) Send(_ context.Context, n share.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, n)
	return nil
}

// recordingObserver keeps use-case events.
type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) Events() []UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]UseCaseEvent(nil), o.events...)
}
