package graphql

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTokens struct {
	mu          sync.Mutex
	token       string
	invalidated int
}

func (s *stubTokens) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *stubTokens) Invalidate(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.invalidated++
}

type recordingObserver struct {
	mu     sync.Mutex
	events []RequestEvent
}

func (o *recordingObserver) OnRequestComplete(e RequestEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func testConfig(endpoint string) Config {
	cfg := DefaultConfig()
	cfg.Endpoint = endpoint
	cfg.Timeout = 2 * time.Second
	return cfg
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_SendsBearerTokenAndRequestID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Me", req.OperationName)

		writeJSON(w, map[string]any{"data": map[string]any{
			"me": map[string]any{"id": "u1", "email": "a@b.c", "name": "Ann"},
		}})
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), &stubTokens{token: "tok-123"}, NoopObserver{})
	var out struct{ Me User }
	require.NoError(t, client.Query(context.Background(), MeOp.Request(nil), &out))
	assert.Equal(t, "Ann", out.Me.Name)
}

func TestClient_NoAuthorizationHeaderWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, map[string]any{"data": map[string]any{}})
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), &stubTokens{}, nil)
	require.NoError(t, client.Mutate(context.Background(), LoginOp.Request(nil), nil))
}

func TestClient_HTTP401InvalidatesSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tokens := &stubTokens{token: "expired"}
	client := NewClient(testConfig(srv.URL), tokens, NoopObserver{})
	err := client.Query(context.Background(), AccountsOp.Request(nil), nil)

	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Equal(t, 1, tokens.invalidated)
	assert.Empty(t, tokens.Token())
}

func TestClient_UnauthenticatedErrorCodeInvalidatesSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"data": nil,
			"errors": []map[string]any{{
				"message":    "not authenticated",
				"extensions": map[string]any{"code": "UNAUTHENTICATED"},
			}},
		})
	}))
	defer srv.Close()

	tokens := &stubTokens{token: "tok"}
	client := NewClient(testConfig(srv.URL), tokens, NoopObserver{})
	err := client.Query(context.Background(), AccountsOp.Request(nil), nil)

	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Equal(t, 1, tokens.invalidated)
}

func TestClient_OtherGraphQLErrorsAreTransportErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"errors": []map[string]any{{"message": "Cannot query field"}},
		})
	}))
	defer srv.Close()

	tokens := &stubTokens{token: "tok"}
	obs := &recordingObserver{}
	client := NewClient(testConfig(srv.URL), tokens, obs)
	err := client.Query(context.Background(), AccountsOp.Request(nil), nil)

	require.ErrorIs(t, err, ErrTransport)
	assert.Contains(t, err.Error(), "Cannot query field")
	assert.Equal(t, 0, tokens.invalidated)
	require.Len(t, obs.events, 1)
	assert.Equal(t, "GRAPHQL", obs.events[0].ErrorCode)
}

func TestClient_ServerErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), nil, NoopObserver{})
	err := client.Mutate(context.Background(), CommitPlanOp.Request(nil), nil)
	require.ErrorIs(t, err, ErrTransport)
	assert.Contains(t, err.Error(), "502")
}

func TestClient_Unavailable(t *testing.T) {
	obs := &recordingObserver{}
	client := NewClient(testConfig("http://127.0.0.1:1"), nil, obs)
	err := client.Mutate(context.Background(), CommitPlanOp.Request(nil), nil)

	require.ErrorIs(t, err, ErrTransport)
	require.Len(t, obs.events, 1)
	assert.False(t, obs.events[0].Success)
	assert.Equal(t, "UNAVAILABLE", obs.events[0].ErrorCode)
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Timeout = 50 * time.Millisecond
	obs := &recordingObserver{}
	client := NewClient(cfg, nil, obs)
	err := client.Mutate(context.Background(), CommitPlanOp.Request(nil), nil)

	require.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "TIMEOUT", obs.events[0].ErrorCode)
}

func TestClient_QueryIsCacheFirstRefetchOverwrites(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := hits.Add(1)
		writeJSON(w, map[string]any{"data": map[string]any{
			"accounts": []map[string]any{{"id": "a1", "name": map[int32]string{1: "first", 2: "second"}[n]}},
		}})
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), nil, NoopObserver{})
	req := AccountsOp.Request(nil)

	var first struct{ Accounts []Account }
	require.NoError(t, client.Query(context.Background(), req, &first))
	var cached struct{ Accounts []Account }
	require.NoError(t, client.Query(context.Background(), req, &cached))
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, "first", cached.Accounts[0].Name)

	var fresh struct{ Accounts []Account }
	require.NoError(t, client.Refetch(context.Background(), req, &fresh))
	assert.Equal(t, int32(2), hits.Load())
	assert.Equal(t, "second", fresh.Accounts[0].Name)

	var after struct{ Accounts []Account }
	require.NoError(t, client.Query(context.Background(), req, &after))
	assert.Equal(t, "second", after.Accounts[0].Name)
	assert.Equal(t, int32(2), hits.Load())
}

func TestClient_MutateDoesNotCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(w, map[string]any{"data": map[string]any{}})
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), nil, NoopObserver{})
	req := CommitPlanOp.Request(map[string]any{"planId": "p1"})
	require.NoError(t, client.Mutate(context.Background(), req, nil))
	require.NoError(t, client.Mutate(context.Background(), req, nil))
	assert.Equal(t, int32(2), hits.Load())

	found, err := client.ReadQuery(req, &struct{}{})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestClient_WriteQueryThenReadQuery(t *testing.T) {
	client := NewClient(testConfig("http://unused"), nil, NoopObserver{})
	req := MoneyPlanOp.Request(map[string]any{"id": "p1"})

	require.NoError(t, client.WriteQuery(req, map[string]any{"moneyPlan": map[string]any{"id": "p1", "notes": "hello"}}))

	var out struct{ MoneyPlan *Plan }
	found, err := client.ReadQuery(req, &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "hello", out.MoneyPlan.Notes)

	client.Evict(req)
	found, err = client.ReadQuery(req, &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestExecute_DecodesUnion(t *testing.T) {
	var payload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"data": map[string]any{"moneyPlan": map[string]any{"archivePlan": payload}}})
	}))
	defer srv.Close()
	client := NewClient(testConfig(srv.URL), nil, NoopObserver{})
	vars := map[string]any{"planId": "p1"}

	payload = map[string]any{"__typename": "MoneyPlanSuccess", "message": "Plan archived", "data": map[string]any{"id": "p1", "isArchived": true}}
	out, err := Execute[*Plan](context.Background(), client, ArchivePlanOp, vars)
	require.NoError(t, err)
	assert.Equal(t, "Plan archived", out.Message)
	assert.True(t, out.Data.IsArchived)

	payload = map[string]any{"__typename": "ApplicationError", "message": "Plan must be committed before archiving"}
	_, err = Execute[*Plan](context.Background(), client, ArchivePlanOp, vars)
	var appErr *ApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Plan must be committed before archiving", err.Error())
	assert.Equal(t, "archivePlan", appErr.Operation)

	payload = map[string]any{"__typename": "EmptySuccess", "message": "ok"}
	out, err = Execute[*Plan](context.Background(), client, ArchivePlanOp, vars)
	require.NoError(t, err)
	assert.Nil(t, out.Data)

	payload = map[string]any{"__typename": "Mystery"}
	_, err = Execute[*Plan](context.Background(), client, ArchivePlanOp, vars)
	assert.ErrorIs(t, err, ErrUnexpectedResult)
}

func TestKey_VariableOrderDoesNotMatter(t *testing.T) {
	a := Key(Request{OperationName: "Op", Variables: map[string]any{"a": 1, "b": 2}})
	b := Key(Request{OperationName: "Op", Variables: map[string]any{"b": 2, "a": 1}})
	assert.Equal(t, a, b)
	assert.Equal(t, "Op", Key(Request{OperationName: "Op"}))
}
