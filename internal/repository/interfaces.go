package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/moneyplan/internal/session"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// SessionRepo persists the single signed-in credential.
type SessionRepo interface {
	session.Store
}

// LocationRepo remembers the last location (path plus query) of each CLI
// screen, so a paginated list reopens on the same page.
type LocationRepo interface {
	Get(ctx context.Context, route string) (string, error)
	Put(ctx context.Context, route, location string) error
}
