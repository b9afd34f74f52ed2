package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alexanderramin/moneyplan/internal/graphql"
	"github.com/alexanderramin/moneyplan/internal/notify"
)

// failureMessage is the toast text for a failed action.
func failureMessage(action string, err error) string {
	var appErr *graphql.ApplicationError
	switch {
	case errors.As(err, &appErr):
		return appErr.Message
	case errors.Is(err, graphql.ErrUnauthenticated):
		return "Your session has expired. Please log in again."
	default:
		return fmt.Sprintf("Could not %s. Check your connection and try again.", action)
	}
}

// reporter turns mutation outcomes into toasts and log lines.
type reporter struct {
	notifier notify.Notifier
	logger   *slog.Logger
}

func newReporter(n notify.Notifier, logger *slog.Logger) reporter {
	if n == nil {
		n = notify.Multi{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return reporter{notifier: n, logger: logger}
}

// fail handles a mutation error. Application errors go back to the caller
// untouched; anything else is logged, toasted and marked as reported.
func (r reporter) fail(ctx context.Context, action string, err error) error {
	if graphql.IsApplicationError(err) {
		return err
	}
	r.logger.ErrorContext(ctx, "mutation failed", "action", action, "error", err)
	notify.Error(ctx, r.notifier, failureMessage(action, err))
	return notify.Reported(err)
}

// toastFailure always toasts, for paths that swallow the error.
func (r reporter) toastFailure(ctx context.Context, action string, err error) {
	r.logger.ErrorContext(ctx, "mutation failed", "action", action, "error", err)
	notify.Error(ctx, r.notifier, failureMessage(action, err))
}

func (r reporter) succeed(ctx context.Context, serverMsg, fallback string) {
	msg := serverMsg
	if msg == "" {
		msg = fallback
	}
	notify.Success(ctx, r.notifier, msg)
}
