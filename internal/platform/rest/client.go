// Package rest is the HTTP service layer between the admin gateway and the
// ChurchConnect membership backend. It translates logical operations (list,
// get, create, update, delete, bulk delete) into single HTTP requests with
// bearer auth and a fixed deadline, decodes JSON responses, and classifies
// failures into the taxonomy the UI presents. There is no retry logic: a
// failed request surfaces immediately to the caller.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout is the client-side deadline raced against every request.
const DefaultTimeout = 10 * time.Second

// TokenSource supplies the bearer token attached to outgoing requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client issues requests against one backend base URL. It is safe for
// concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	timeout time.Duration
	log     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTokenSource sets the bearer token source for outgoing requests.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithTimeout overrides the per-request deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient creates a Client for the given base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		timeout: DefaultTimeout,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Query carries the list-endpoint parameters: free-text search, exact-match
// filters, pagination and ordering.
type Query struct {
	Search   string
	Page     int
	PageSize int
	Ordering string
	Filters  map[string]string
}

// Values encodes the query as URL parameters. Zero values are omitted.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	if q.Ordering != "" {
		v.Set("ordering", q.Ordering)
	}
	for key, val := range q.Filters {
		if val != "" {
			v.Set(key, val)
		}
	}
	return v
}

// Page is the normalized form of a list response. Both the paginated
// envelope {count, next, previous, results} and a bare JSON array decode
// into it; a bare array yields Count == len(Results) and no page links.
type Page[T any] struct {
	Results  []T     `json:"results"`
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

// do performs one request and returns the raw response body. Error
// responses are classified; transport failures are mapped to timeout or
// cancellation.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		tok, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("token source: %w", err)
		}
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, ErrCancelled
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &Error{Kind: KindTimeout, Message: "request timed out"}
		}
		return nil, &Error{Kind: KindUnknown, Message: "operation failed"}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, ErrCancelled
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &Error{Kind: KindTimeout, Message: "request timed out"}
		}
		return nil, &Error{Kind: KindUnknown, Message: "operation failed"}
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("backend request")

	if resp.StatusCode >= 400 {
		return nil, Classify(resp.StatusCode, data)
	}
	return data, nil
}

// List fetches a collection page from path, normalizing either response
// envelope into Page[T].
func List[T any](ctx context.Context, c *Client, path string, q Query) (Page[T], error) {
	data, err := c.do(ctx, http.MethodGet, path, q.Values(), nil)
	if err != nil {
		return Page[T]{}, err
	}
	return decodePage[T](data)
}

func decodePage[T any](data []byte) (Page[T], error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var results []T
		if err := json.Unmarshal(trimmed, &results); err != nil {
			return Page[T]{}, &Error{Kind: KindUnknown, Message: "operation failed"}
		}
		return Page[T]{Results: results, Count: len(results)}, nil
	}

	var page Page[T]
	if err := json.Unmarshal(data, &page); err != nil {
		return Page[T]{}, &Error{Kind: KindUnknown, Message: "operation failed"}
	}
	return page, nil
}

// Get fetches a single record.
func Get[T any](ctx context.Context, c *Client, path string) (T, error) {
	var rec T
	data, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, &Error{Kind: KindUnknown, Message: "operation failed"}
	}
	return rec, nil
}

// Create POSTs payload and decodes the created record.
func Create[T any](ctx context.Context, c *Client, path string, payload any) (T, error) {
	return write[T](ctx, c, http.MethodPost, path, payload)
}

// Update PUTs payload and decodes the updated record.
func Update[T any](ctx context.Context, c *Client, path string, payload any) (T, error) {
	return write[T](ctx, c, http.MethodPut, path, payload)
}

// Patch applies a partial update and decodes the result.
func Patch[T any](ctx context.Context, c *Client, path string, payload any) (T, error) {
	return write[T](ctx, c, http.MethodPatch, path, payload)
}

func write[T any](ctx context.Context, c *Client, method, path string, payload any) (T, error) {
	var rec T
	data, err := c.do(ctx, method, path, nil, payload)
	if err != nil {
		return rec, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return rec, nil
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, &Error{Kind: KindUnknown, Message: "operation failed"}
	}
	return rec, nil
}

// Delete removes a single record.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	return err
}

// BulkDelete removes a set of records in one batched request. The backend
// accepts the id list as a JSON body on DELETE.
func (c *Client) BulkDelete(ctx context.Context, path string, ids []string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil, map[string][]string{"ids": ids})
	return err
}
