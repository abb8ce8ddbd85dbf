// Package supabase talks to a Supabase project over its PostgREST and
// Realtime endpoints using a service key.
package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/tinyland-inc/clawreply/pkg/logger"
)

const (
	HeaderAPIKey    = "apikey"
	HeaderPrefer    = "Prefer"
	HeaderRequestID = "X-Request-Id"

	// PreferRepresentation asks PostgREST to echo the inserted rows.
	PreferRepresentation = "return=representation"

	DefaultTimeout = 10 * time.Second
)

// StatusError is returned when the server answers with a status the
// caller did not expect.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("supabase returned status %d: %s", e.Code, e.Body)
}

// Response is the raw outcome of a request that reached the server.
type Response struct {
	StatusCode int
	Body       []byte
	RequestID  string
}

type Client struct {
	baseURL    string
	serviceKey string
	timeout    time.Duration
	httpClient *http.Client
	rest       *resty.Client
}

type Option func(*Client)

// WithTimeout bounds every request, connection setup included.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(baseURL, serviceKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient != nil {
		c.rest = resty.NewWithClient(c.httpClient)
	} else {
		c.rest = resty.New()
	}
	c.rest.
		SetBaseURL(c.baseURL).
		SetTimeout(c.timeout).
		SetHeader(HeaderAPIKey, serviceKey).
		SetAuthToken(serviceKey)

	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Insert posts row as JSON to the table's REST resource. Any HTTP status
// is returned as a Response; only transport failures produce an error.
func (c *Client) Insert(ctx context.Context, table string, row any, prefer string) (*Response, error) {
	requestID := uuid.NewString()

	req := c.rest.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader(HeaderRequestID, requestID).
		SetBody(row)
	if prefer != "" {
		req.SetHeader(HeaderPrefer, prefer)
	}

	logger.DebugCF("supabase", "Inserting row", map[string]any{
		"table":      table,
		"request_id": requestID,
	})

	resp, err := req.Post(restPath(table))
	if err != nil {
		return nil, fmt.Errorf("insert into %s: %w", table, err)
	}

	logger.DebugCF("supabase", "Insert answered", map[string]any{
		"table":      table,
		"request_id": requestID,
		"status":     resp.StatusCode(),
		"elapsed_ms": resp.Time().Milliseconds(),
	})

	return &Response{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
		RequestID:  requestID,
	}, nil
}

// Select reads rows from a table. query carries PostgREST parameters such
// as select, order, limit and column filters ("session_key" -> "eq.x").
func (c *Client) Select(ctx context.Context, table string, query url.Values) ([]byte, error) {
	requestID := uuid.NewString()

	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader(HeaderRequestID, requestID).
		SetQueryParamsFromValues(query).
		Get(restPath(table))
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", table, err)
	}

	logger.DebugCF("supabase", "Select answered", map[string]any{
		"table":      table,
		"request_id": requestID,
		"status":     resp.StatusCode(),
	})

	if resp.StatusCode() != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode(), Body: resp.String()}
	}
	return resp.Body(), nil
}

func restPath(table string) string {
	return "/rest/v1/" + url.PathEscape(table)
}
