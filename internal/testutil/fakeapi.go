package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/moneyplan/internal/graphql"
)

// Call is one request received by a FakeAPI.
type Call struct {
	Operation     string
	Variables     map[string]any
	Authorization string
}

// Response is what a Handler answers with. A zero Status means 200.
type Response struct {
	Status int
	Data   any
	Errors []map[string]any
}

type Handler func(call Call) Response

// FakeAPI is an httptest GraphQL server that dispatches on operationName.
// Operations without a handler answer with a GraphQL error.
type FakeAPI struct {
	Server   *httptest.Server
	mu       sync.Mutex
	handlers map[string]Handler
	calls    []Call
}

func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()
	f := &FakeAPI{handlers: make(map[string]Handler)}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

func (f *FakeAPI) URL() string { return f.Server.URL }

// On registers h for operation op, replacing any earlier handler.
func (f *FakeAPI) On(op string, h Handler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[op] = h
}

// OnData answers op with a fixed data payload.
func (f *FakeAPI) OnData(op string, data any) {
	f.On(op, func(Call) Response { return Response{Data: data} })
}

func (f *FakeAPI) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Operations lists the operation names received, in order.
func (f *FakeAPI) Operations() []string {
	calls := f.Calls()
	ops := make([]string, len(calls))
	for i, c := range calls {
		ops[i] = c.Operation
	}
	return ops
}

// Count returns how many times op was requested.
func (f *FakeAPI) Count(op string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Operation == op {
			n++
		}
	}
	return n
}

func (f *FakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	var req graphql.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	call := Call{
		Operation:     req.OperationName,
		Variables:     req.Variables,
		Authorization: r.Header.Get("Authorization"),
	}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	h, ok := f.handlers[req.OperationName]
	f.mu.Unlock()

	resp := Response{Errors: []map[string]any{{"message": fmt.Sprintf("no handler for %s", req.OperationName)}}}
	if ok {
		resp = h(call)
	}

	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	body := map[string]any{"data": resp.Data}
	if len(resp.Errors) > 0 {
		body["errors"] = resp.Errors
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// NewTestGraphQLClient returns a client pointed at api with caching enabled.
func NewTestGraphQLClient(api *FakeAPI, tokens graphql.TokenSource) *graphql.Client {
	cfg := graphql.DefaultConfig()
	cfg.Endpoint = api.URL()
	cfg.Timeout = 2 * time.Second
	return graphql.NewClient(cfg, tokens, graphql.NoopObserver{})
}

// StaticToken is a TokenSource with a fixed token that records invalidation.
type StaticToken struct {
	mu          sync.Mutex
	Value       string
	Invalidated int
}

func (s *StaticToken) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Value
}

func (s *StaticToken) Invalidate(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Value = ""
	s.Invalidated++
}
