package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/alexanderramin/moneyplan/internal/graphql"
)

// UseCaseEvent is emitted once per service call.
type UseCaseEvent struct {
	Name      string
	StartedAt time.Time
	Duration  time.Duration
	Err       error
	Fields    map[string]any
}

func (e UseCaseEvent) Success() bool { return e.Err == nil }

type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

// observers fans an event out to every non-nil observer in order.
type observers []UseCaseObserver

func (all observers) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	for _, o := range all {
		o.ObserveUseCase(ctx, event)
	}
}

func useCaseObserverOrNoop(in []UseCaseObserver) UseCaseObserver {
	var live observers
	for _, o := range in {
		if o != nil {
			live = append(live, o)
		}
	}
	switch len(live) {
	case 0:
		return NoopUseCaseObserver{}
	case 1:
		return live[0]
	}
	return live
}

type logUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver logs each use case. Application errors (validation,
// not found) are expected outcomes and log at info; anything else at warn.
func NewLogUseCaseObserver(logger *slog.Logger) UseCaseObserver {
	if logger == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{logger: logger}
}

func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := []slog.Attr{
		slog.String("use_case", event.Name),
		slog.Duration("took", event.Duration),
		slog.Bool("ok", event.Success()),
	}
	for k, v := range event.Fields {
		attrs = append(attrs, slog.Any(k, v))
	}

	level := slog.LevelDebug
	if event.Err != nil {
		attrs = append(attrs, slog.String("error", event.Err.Error()))
		level = slog.LevelWarn
		if graphql.IsApplicationError(event.Err) {
			level = slog.LevelInfo
		}
	}
	o.logger.LogAttrs(ctx, level, "use case finished", attrs...)
}

// observe is deferred at the top of a use case with the address of its
// named error result.
func observe(ctx context.Context, obs UseCaseObserver, name string, fields map[string]any) func(errp *error) {
	start := time.Now()
	return func(errp *error) {
		ev := UseCaseEvent{
			Name:      name,
			StartedAt: start.UTC(),
			Duration:  time.Since(start),
			Fields:    fields,
		}
		if errp != nil {
			ev.Err = *errp
		}
		obs.ObserveUseCase(ctx, ev)
	}
}
