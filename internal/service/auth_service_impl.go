package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alexanderramin/moneyplan/internal/domain"
	"github.com/alexanderramin/moneyplan/internal/graphql"
	"github.com/alexanderramin/moneyplan/internal/notify"
)

type authService struct {
	gql      GraphQL
	sessions SessionManager
	report   reporter
	observer UseCaseObserver
}

func NewAuthService(gql GraphQL, sessions SessionManager, notifier notify.Notifier, logger *slog.Logger, observers ...UseCaseObserver) AuthService {
	return &authService{
		gql:      gql,
		sessions: sessions,
		report:   newReporter(notifier, logger),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (user *domain.User, err error) {
	defer observe(ctx, s.observer, "login", map[string]any{"email": email})(&err)

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		err = errors.New("email and password are required")
		return nil, err
	}
	out, err := graphql.Execute[*graphql.AuthPayload](ctx, s.gql, graphql.LoginOp, map[string]any{
		"input": map[string]any{"email": email, "password": password},
	})
	if err != nil {
		return nil, s.report.fail(ctx, "log in", err)
	}
	return s.establish(ctx, out)
}

func (s *authService) Register(ctx context.Context, name, email, password string) (user *domain.User, err error) {
	defer observe(ctx, s.observer, "register", map[string]any{"email": email})(&err)

	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		err = errors.New("name, email and password are required")
		return nil, err
	}
	out, err := graphql.Execute[*graphql.AuthPayload](ctx, s.gql, graphql.RegisterOp, map[string]any{
		"input": map[string]any{"name": name, "email": email, "password": password},
	})
	if err != nil {
		return nil, s.report.fail(ctx, "register", err)
	}
	return s.establish(ctx, out)
}

// establish stores the issued token and drops anything cached under the
// previous identity.
func (s *authService) establish(ctx context.Context, out graphql.Outcome[*graphql.AuthPayload]) (*domain.User, error) {
	if out.Data == nil || out.Data.Token == "" {
		return nil, fmt.Errorf("%w: no token in auth response", graphql.ErrUnexpectedResult)
	}
	cred, err := s.sessions.Establish(ctx, out.Data.Token, toDomainUser(out.Data.User))
	if err != nil {
		return nil, err
	}
	s.gql.Purge()
	s.report.succeed(ctx, out.Message, fmt.Sprintf("Signed in as %s", cred.User.Email))
	return &cred.User, nil
}

func (s *authService) Logout(ctx context.Context) (err error) {
	defer observe(ctx, s.observer, "logout", nil)(&err)

	if err = s.sessions.Logout(ctx); err != nil {
		return err
	}
	s.gql.Purge()
	notify.Info(ctx, s.report.notifier, "Signed out")
	return nil
}

func (s *authService) IsAuthenticated() bool {
	return s.sessions.IsAuthenticated()
}

func (s *authService) Current() *domain.User {
	cred := s.sessions.Current()
	if cred == nil {
		return nil
	}
	u := cred.User
	return &u
}

type meResponse struct {
	Me *graphql.User `json:"me"`
}

// Me asks the API who the token belongs to.
func (s *authService) Me(ctx context.Context) (*domain.User, error) {
	var resp meResponse
	if err := s.gql.Refetch(ctx, graphql.MeOp.Request(nil), &resp); err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	if resp.Me == nil {
		return nil, fmt.Errorf("%w: empty profile", graphql.ErrUnexpectedResult)
	}
	u := toDomainUser(*resp.Me)
	return &u, nil
}
