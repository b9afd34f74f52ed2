package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Request is the JSON body POSTed to the GraphQL endpoint.
type Request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// TokenSource supplies the bearer token for outgoing requests and is told
// when the API rejects it.
type TokenSource interface {
	Token() string
	Invalidate(ctx context.Context)
}

// Client talks to the money-planning GraphQL API. Query results are kept in
// a Cache; mutations always go to the network.
type Client struct {
	cfg      Config
	http     *http.Client
	tokens   TokenSource
	cache    *Cache
	observer Observer
}

// NewClient creates a Client. tokens may be nil for unauthenticated use.
func NewClient(cfg Config, tokens TokenSource, observer Observer) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		tokens:   tokens,
		cache:    NewCache(cfg.CacheSize, cfg.CacheTTL),
		observer: observer,
	}
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors ResponseErrors  `json:"errors"`
}

// Query returns the cached result for req when there is one, otherwise
// fetches and caches it.
func (c *Client) Query(ctx context.Context, req Request, out any) error {
	if data, ok := c.cache.Get(Key(req)); ok {
		c.observer.OnRequestComplete(RequestEvent{
			Operation: req.OperationName,
			Success:   true,
			Cached:    true,
		})
		return decodeData(data, out)
	}
	return c.Refetch(ctx, req, out)
}

// Refetch always goes to the network and overwrites the cached result.
func (c *Client) Refetch(ctx context.Context, req Request, out any) error {
	data, err := c.execute(ctx, req)
	if err != nil {
		return err
	}
	c.cache.Set(Key(req), data)
	return decodeData(data, out)
}

// Mutate sends req without reading or writing the cache.
func (c *Client) Mutate(ctx context.Context, req Request, out any) error {
	data, err := c.execute(ctx, req)
	if err != nil {
		return err
	}
	return decodeData(data, out)
}

// ReadQuery decodes the cached result of req into out. It reports false
// when nothing is cached.
func (c *Client) ReadQuery(req Request, out any) (bool, error) {
	data, ok := c.cache.Get(Key(req))
	if !ok {
		return false, nil
	}
	return true, decodeData(data, out)
}

// WriteQuery replaces the cached result of req with value.
func (c *Client) WriteQuery(req Request, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding cache entry for %s: %w", req.OperationName, err)
	}
	c.cache.Set(Key(req), data)
	return nil
}

// Evict drops the cached result of req.
func (c *Client) Evict(req Request) {
	c.cache.Delete(Key(req))
}

// Purge drops every cached result.
func (c *Client) Purge() {
	c.cache.Purge()
}

func (c *Client) execute(ctx context.Context, req Request) (json.RawMessage, error) {
	start := time.Now()
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	data, err := c.doRequest(ctx, req)
	c.observer.OnRequestComplete(RequestEvent{
		Operation: req.OperationName,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})

	if errors.Is(err, ErrUnauthenticated) && c.tokens != nil {
		c.tokens.Invalidate(context.WithoutCancel(ctx))
	}
	return data, err
}

func (c *Client) doRequest(ctx context.Context, req Request) (json.RawMessage, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTransport, req.OperationName, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrTransport, err)
	}

	if httpResp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthenticated
	}

	var resp response
	decodeErr := json.Unmarshal(respBody, &resp)
	if decodeErr == nil && resp.Errors.unauthenticated() {
		return nil, ErrUnauthenticated
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d: %s",
			ErrTransport, req.OperationName, httpResp.StatusCode, truncate(respBody, 200))
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: decoding response: %w", ErrTransport, decodeErr)
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("%w: %s: %w", ErrTransport, req.OperationName, resp.Errors)
	}
	return resp.Data, nil
}

func decodeData(data json.RawMessage, out any) error {
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decoding data: %w", ErrTransport, err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthenticated):
		return "UNAUTHENTICATED"
	case errors.Is(err, context.DeadlineExceeded):
		return "TIMEOUT"
	case isConnectionError(err):
		return "UNAVAILABLE"
	case errors.As(err, new(ResponseErrors)):
		return "GRAPHQL"
	default:
		return "TRANSPORT"
	}
}
