package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/moneyplan/internal/graphql"
	"github.com/alexanderramin/moneyplan/internal/notify"
	"github.com/alexanderramin/moneyplan/internal/session"
	"github.com/alexanderramin/moneyplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authSuccess(field, token string) map[string]any {
	return testutil.NamespacedResult("auth", field, testutil.SuccessPayload("AuthSuccess", "Welcome back", map[string]any{
		"token": token,
		"user":  map[string]any{"id": "u1", "email": "alex@example.com", "name": "Alex"},
	}))
}

func newAuthHarness(t *testing.T) (*harness, *session.Manager, AuthService) {
	t.Helper()
	h := newHarness(t)
	mgr := session.NewManager(nil, h.logger)
	h.gql = testutil.NewTestGraphQLClient(h.api, mgr)
	return h, mgr, NewAuthService(h.gql, mgr, h.toasts, h.logger)
}

func TestAuthService_Login_EstablishesSession(t *testing.T) {
	h, mgr, svc := newAuthHarness(t)
	ctx := context.Background()
	h.api.OnData("Login", authSuccess("login", "issued-token"))
	h.api.OnData("Me", map[string]any{"me": map[string]any{"id": "u1", "email": "alex@example.com", "name": "Alex"}})

	require.False(t, svc.IsAuthenticated())
	user, err := svc.Login(ctx, " alex@example.com ", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "alex@example.com", user.Email)
	assert.True(t, svc.IsAuthenticated())
	assert.Equal(t, "issued-token", mgr.Token())
	assert.Equal(t, "Alex", svc.Current().Name)

	input := h.api.Calls()[0].Variables["input"].(map[string]any)
	assert.Equal(t, "alex@example.com", input["email"])
	assert.Empty(t, h.api.Calls()[0].Authorization)

	_, err = svc.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer issued-token", h.api.Calls()[1].Authorization)
}

func TestAuthService_Login_ApplicationError(t *testing.T) {
	h, _, svc := newAuthHarness(t)
	h.api.OnData("Login", testutil.NamespacedResult("auth", "login", testutil.AppErrorPayload("Invalid email or password")))

	_, err := svc.Login(context.Background(), "alex@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", err.Error())
	assert.False(t, svc.IsAuthenticated())
	assert.Nil(t, svc.Current())
}

func TestAuthService_Login_RequiresCredentials(t *testing.T) {
	h, _, svc := newAuthHarness(t)
	_, err := svc.Login(context.Background(), "", "secret")
	require.Error(t, err)
	assert.Empty(t, h.api.Calls())
}

func TestAuthService_Register(t *testing.T) {
	h, _, svc := newAuthHarness(t)
	h.api.OnData("Register", authSuccess("register", "new-token"))

	user, err := svc.Register(context.Background(), "Alex", "alex@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)

	input := h.api.Calls()[0].Variables["input"].(map[string]any)
	assert.Equal(t, "Alex", input["name"])
	assert.True(t, svc.IsAuthenticated())
}

func TestAuthService_Logout_PurgesCache(t *testing.T) {
	h, _, svc := newAuthHarness(t)
	ctx := context.Background()
	h.api.OnData("Login", authSuccess("login", "issued-token"))
	_, err := svc.Login(ctx, "alex@example.com", "hunter2")
	require.NoError(t, err)

	req := graphql.DraftMoneyPlanOp.Request(nil)
	require.NoError(t, h.gql.WriteQuery(req, draftResponse{DraftMoneyPlan: testutil.NewTestPlan("plan-1", "10")}))

	require.NoError(t, svc.Logout(ctx))
	assert.False(t, svc.IsAuthenticated())
	ok, err := h.gql.ReadQuery(req, &draftResponse{})
	require.NoError(t, err)
	assert.False(t, ok, "cached data of the old session is gone")
	assert.Equal(t, notify.Toast{Level: notify.LevelInfo, Message: "Signed out"}, h.toasts.Last())
}

func TestAuthService_RejectedTokenSignsOut(t *testing.T) {
	h, _, svc := newAuthHarness(t)
	ctx := context.Background()
	h.api.OnData("Login", authSuccess("login", "issued-token"))
	h.api.On("Me", func(testutil.Call) testutil.Response {
		return testutil.Response{Errors: []map[string]any{{
			"message":    "token expired",
			"extensions": map[string]any{"code": "UNAUTHENTICATED"},
		}}}
	})

	_, err := svc.Login(ctx, "alex@example.com", "hunter2")
	require.NoError(t, err)

	_, err = svc.Me(ctx)
	assert.ErrorIs(t, err, graphql.ErrUnauthenticated)
	assert.False(t, svc.IsAuthenticated())
}
