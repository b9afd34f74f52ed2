package graphql

import "log/slog"

// RequestEvent records metadata about a single GraphQL request. Cache hits
// are reported too, with Cached set and no latency.
type RequestEvent struct {
	Operation string
	LatencyMs int64
	Success   bool
	Cached    bool
	ErrorCode string
}

// Observer receives events about GraphQL requests for logging and metrics.
type Observer interface {
	OnRequestComplete(event RequestEvent)
}

// LogObserver writes request events to a structured logger at debug level,
// failures at warn.
type LogObserver struct {
	logger *slog.Logger
}

func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnRequestComplete(event RequestEvent) {
	attrs := []any{
		"operation", event.Operation,
		"latency_ms", event.LatencyMs,
		"cached", event.Cached,
	}
	if !event.Success {
		o.logger.Warn("graphql_request", append(attrs, "error_code", event.ErrorCode)...)
		return
	}
	o.logger.Debug("graphql_request", attrs...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnRequestComplete(RequestEvent) {}
