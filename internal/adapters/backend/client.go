// Package backend is the dashboard's only door to the SGVA REST API.
//
// Every call goes through Client.Request, which attaches the session token,
// normalizes failures and reports them to the user. Callers receive
// (result, true) or (nil, false); false means the failure was already
// reported and the caller should simply stop.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/sgva/internal/adapters/notify"
	"github.com/okian/sgva/internal/domain/model"
	"github.com/okian/sgva/pkg/logger"
	"github.com/okian/sgva/pkg/metrics"
)

// RequestIDHeader carries a per-call id for backend log correlation.
const RequestIDHeader = "X-Request-ID"

// TokenSource exposes the current session to the client.
type TokenSource interface {
	Get(ctx context.Context) model.Session
}

// RequestOptions describes one outbound call. Body is JSON-encoded when set.
type RequestOptions struct {
	Method string
	Body   any
	Header http.Header
}

// Client wraps outbound requests to the backend.
type Client struct {
	baseURL        string
	oauthBase      string
	httpClient     *http.Client
	sessions       TokenSource
	notifier       notify.Notifier
	onUnauthorized func(ctx context.Context)
	timeout        time.Duration
	logger         logger.Logger
}

// New creates a client for baseURL reading tokens from sessions.
func New(baseURL string, sessions TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: http.DefaultClient,
		sessions:   sessions,
		notifier:   discard{},
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.oauthBase == "" {
		c.oauthBase = originOf(c.baseURL)
	}
	return c
}

// SetUnauthorizedHandler installs the hook run when the backend answers 401.
// The hook is expected to end the session.
func (c *Client) SetUnauthorizedHandler(fn func(ctx context.Context)) {
	c.onUnauthorized = fn
}

// Request performs the call and returns the JSON body. On any failure it
// reports to the user, logs, and returns (nil, false). A 401 invalidates the
// session instead of reporting.
func (c *Client) Request(ctx context.Context, path string, opts RequestOptions) (json.RawMessage, bool) {
	raw, err := c.do(ctx, path, opts)
	if err != nil {
		c.report(ctx, path, err)
		return nil, false
	}
	return raw, true
}

func (c *Client) do(ctx context.Context, path string, opts RequestOptions) (json.RawMessage, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	endpoint := endpointLabel(path)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if opts.Body != nil {
		payload, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrTransport, err)
	}
	for k, vs := range opts.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())
	if c.sessions != nil {
		if tok := c.sessions.Get(ctx).Token; tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.RecordBackendRequestDuration(endpoint, method, float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordBackendRequest(endpoint, method, "error")
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()
	metrics.RecordBackendRequest(endpoint, method, strconv.Itoa(resp.StatusCode))

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, newAPIError(resp.StatusCode, payload)
	}

	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(payload) {
		return nil, fmt.Errorf("%w: body is not JSON", ErrDecode)
	}
	return json.RawMessage(payload), nil
}

func (c *Client) report(ctx context.Context, path string, err error) {
	endpoint := endpointLabel(path)
	if errors.Is(err, ErrUnauthorized) {
		metrics.RecordSessionExpired()
		c.logger.Warn(ctx, "session expired", logger.String("endpoint", endpoint))
		if c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return
	}
	metrics.RecordBackendFailure(endpoint, failureKind(err))
	c.logger.Error(ctx, "backend request failed", logger.String("endpoint", endpoint), logger.Error(err))
	c.notifier.Notify(ctx, notify.Error, userMessage(err))
}

// decode unmarshals raw into a T, reporting shape failures like any other.
func decode[T any](ctx context.Context, c *Client, path string, raw json.RawMessage) (T, bool) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		c.report(ctx, path, fmt.Errorf("%w: %v", ErrShape, err))
		return v, false
	}
	return v, true
}

// decodePage normalizes a list response, reporting shape failures.
func decodePage[T any](ctx context.Context, c *Client, path string, raw json.RawMessage) (Page[T], bool) {
	p, err := DecodePage[T](raw)
	if err != nil {
		c.report(ctx, path, err)
		return Page[T]{}, false
	}
	return p, true
}

// endpointLabel strips the query and replaces numeric path segments so
// metric labels stay bounded.
func endpointLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	segs := strings.Split(path, "/")
	for i, s := range segs {
		if s == "" {
			continue
		}
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			segs[i] = ":id"
		}
	}
	return strings.Join(segs, "/")
}

// originOf returns scheme://host of a URL string, or "" if it has none.
func originOf(raw string) string {
	i := strings.Index(raw, "://")
	if i < 0 {
		return ""
	}
	rest := raw[i+3:]
	if j := strings.IndexByte(rest, '/'); j >= 0 {
		rest = rest[:j]
	}
	return raw[:i+3] + rest
}

type discard struct{}

func (discard) Notify(context.Context, notify.Kind, string) {}
