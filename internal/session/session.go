package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/moneyplan/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// ErrNotAuthenticated is returned by operations that need a signed-in user.
var ErrNotAuthenticated = errors.New("not logged in: run `moneyplan login`")

// Credential is the one token the client holds, plus who it belongs to.
type Credential struct {
	Token     string
	User      domain.User
	ExpiresAt *time.Time
	CreatedAt time.Time
}

// Expired reports whether the token's exp claim is in the past. Tokens
// without an exp claim never expire client-side.
func (c *Credential) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !now.Before(*c.ExpiresAt)
}

// Store persists the credential between CLI invocations.
type Store interface {
	Load(ctx context.Context) (*Credential, error)
	Save(ctx context.Context, cred *Credential) error
	Clear(ctx context.Context) error
}

// Manager owns the session. It is safe for concurrent use and implements
// graphql.TokenSource.
type Manager struct {
	mu       sync.RWMutex
	cred     *Credential
	store    Store
	logger   *slog.Logger
	now      func() time.Time
	onLogout []func()
}

func NewManager(store Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{store: store, logger: logger, now: time.Now}
}

// OnLogout registers fn to run whenever the session ends, whether by an
// explicit logout or because the API rejected the token.
func (m *Manager) OnLogout(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onLogout = append(m.onLogout, fn)
}

// Restore loads a persisted credential. An expired one is discarded.
func (m *Manager) Restore(ctx context.Context) error {
	if m.store == nil {
		return nil
	}
	cred, err := m.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	if cred == nil {
		return nil
	}
	if cred.Expired(m.now()) {
		m.logger.Info("stored session expired", "user", cred.User.Email)
		return m.Logout(ctx)
	}
	m.mu.Lock()
	m.cred = cred
	m.mu.Unlock()
	return nil
}

// Establish stores a freshly issued token, replacing any previous session.
func (m *Manager) Establish(ctx context.Context, token string, user domain.User) (*Credential, error) {
	if token == "" {
		return nil, errors.New("empty session token")
	}
	cred := &Credential{
		Token:     token,
		User:      user,
		ExpiresAt: TokenExpiry(token),
		CreatedAt: m.now().UTC(),
	}
	if m.store != nil {
		if err := m.store.Save(ctx, cred); err != nil {
			return nil, fmt.Errorf("saving session: %w", err)
		}
	}
	m.mu.Lock()
	m.cred = cred
	m.mu.Unlock()
	return cred, nil
}

// Token returns the bearer token, or "" when signed out or expired.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cred == nil || m.cred.Expired(m.now()) {
		return ""
	}
	return m.cred.Token
}

func (m *Manager) IsAuthenticated() bool {
	return m.Token() != ""
}

// Current returns a copy of the active credential, or nil.
func (m *Manager) Current() *Credential {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cred == nil || m.cred.Expired(m.now()) {
		return nil
	}
	c := *m.cred
	return &c
}

// Require returns ErrNotAuthenticated unless a valid session exists.
func (m *Manager) Require() error {
	if !m.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	return nil
}

// Logout drops the credential from memory and from the store. The in-memory
// token is gone before the store is touched, so no request issued after
// Logout starts can carry it.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	hadSession := m.cred != nil
	m.cred = nil
	hooks := append([]func(){}, m.onLogout...)
	m.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
	if m.store != nil {
		if err := m.store.Clear(ctx); err != nil {
			return fmt.Errorf("clearing session: %w", err)
		}
	}
	if hadSession {
		m.logger.Info("session ended")
	}
	return nil
}

// Invalidate is called by the transport when the API rejects the token.
func (m *Manager) Invalidate(ctx context.Context) {
	if err := m.Logout(ctx); err != nil {
		m.logger.Error("invalidating session", "error", err)
	}
}

// TokenExpiry reads the exp claim without verifying the signature; the
// server is the authority on validity. Non-JWT tokens yield nil.
func TokenExpiry(token string) *time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	t := exp.Time.UTC()
	return &t
}
