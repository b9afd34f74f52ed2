package graphql

import (
	"context"
	"fmt"
	"strings"
)

const (
	TypeApplicationError = "ApplicationError"
	TypeEmptySuccess     = "EmptySuccess"
)

// Result is a mutation payload discriminated by __typename. Success variants
// end in "Success" and carry data; ApplicationError carries only a message.
type Result[T any] struct {
	Typename string `json:"__typename"`
	Message  string `json:"message"`
	Data     T      `json:"data"`
}

// Decode maps the union onto Go's value/error pair. EmptySuccess yields the
// zero value with a nil error.
func (r Result[T]) Decode(operation string) (T, error) {
	var zero T
	switch {
	case r.Typename == TypeApplicationError:
		return zero, &ApplicationError{Operation: operation, Message: r.Message}
	case r.Typename == TypeEmptySuccess:
		return zero, nil
	case strings.HasSuffix(r.Typename, "Success"):
		return r.Data, nil
	default:
		return zero, fmt.Errorf("%s: %w: %q", operation, ErrUnexpectedResult, r.Typename)
	}
}

// Mutator sends a request without touching the query cache.
type Mutator interface {
	Mutate(ctx context.Context, req Request, out any) error
}

// Outcome is a decoded mutation payload plus the server message, which
// callers surface in success notifications.
type Outcome[T any] struct {
	Data    T
	Message string
}

// Execute runs op against m and decodes the union found at
// data.<Namespace>.<Field>.
func Execute[T any](ctx context.Context, m Mutator, op Operation, vars map[string]any) (Outcome[T], error) {
	var resp map[string]map[string]Result[T]
	if err := m.Mutate(ctx, op.Request(vars), &resp); err != nil {
		return Outcome[T]{}, err
	}
	result, ok := resp[op.Namespace][op.Field]
	if !ok {
		return Outcome[T]{}, fmt.Errorf("%w: missing %s.%s in response", ErrTransport, op.Namespace, op.Field)
	}
	data, err := result.Decode(op.Field)
	if err != nil {
		return Outcome[T]{}, err
	}
	return Outcome[T]{Data: data, Message: result.Message}, nil
}
