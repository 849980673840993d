// Package gateway is the single choke point for outbound calls to the
// upstream REST API. Every request is funneled through Do, which resolves
// authentication, assembles the HTTP request, and normalizes success and
// failure into a Result. Do never panics and never returns a bare error for
// request-level failures: callers always get exactly one terminal Result.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxResponseBytes caps how much of an upstream response we will buffer.
const maxResponseBytes = 2 * 1024 * 1024

const defaultTimeout = 15 * time.Second

// SessionSource supplies the current session's upstream access token.
// An empty token with nil error means "no session"; a non-nil error means
// the lookup itself failed. Injected so tests can substitute fakes.
type SessionSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Observer receives the terminal outcome of every gateway call.
// Implemented by the metrics collector; a nil observer is allowed.
type Observer interface {
	ObserveRequest(endpoint, method, code string, success bool, elapsed time.Duration)
}

// Client issues requests against one upstream base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	sessions   SessionSource
	logger     *slog.Logger
	observer   Observer
}

// Option configures a Client.
type Option func(*Client)

// WithSessionSource injects the session lookup used for RequiresAuth calls.
func WithSessionSource(s SessionSource) Option {
	return func(c *Client) { c.sessions = s }
}

// WithHTTPClient replaces the underlying transport (tests, custom timeouts).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithLogger routes diagnostics to the given logger instead of the default.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithObserver wires a metrics observer.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// NewClient validates the base URL and builds a client. The default transport
// carries no cookie jar: the client is shared across every caller's request,
// so upstream-set cookies must never leak from one session into another.
// Credentials travel only as per-request headers.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, errors.New("gateway: base URL is empty")
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, err
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, errors.New("gateway: base URL must be absolute: " + trimmed)
	}

	c := &Client{
		baseURL: strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// BaseURL returns the configured upstream base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Options shape one gateway call.
type Options struct {
	// Method defaults to GET.
	Method string

	// Headers take precedence over gateway defaults, including Authorization.
	Headers map[string]string

	// Body is JSON-encoded and attached only when Method is not GET.
	Body any

	// RequiresAuth makes the gateway inject "Authorization: Bearer <token>"
	// from the session source unless the caller already set the header.
	RequiresAuth bool
}

// Do performs one call against the upstream API and returns its normalized
// result. Failure taxonomy: AUTH_TOKEN_MISSING and SESSION_ERROR are produced
// before any network traffic; NETWORK_ERROR covers transport and decode
// failures; upstream error envelopes pass through with code and message
// untouched.
func Do[T any](ctx context.Context, c *Client, endpoint string, opts Options) Result[T] {
	start := time.Now()
	res := do[T](ctx, c, endpoint, opts)

	if c.observer != nil {
		method := opts.Method
		if method == "" {
			method = http.MethodGet
		}
		c.observer.ObserveRequest(endpoint, method, res.Code, res.Success, time.Since(start))
	}

	return res
}

func do[T any](ctx context.Context, c *Client, endpoint string, opts Options) Result[T] {
	log := c.logger

	method := strings.ToUpper(strings.TrimSpace(opts.Method))
	if method == "" {
		method = http.MethodGet
	}

	// Defaults first, caller headers win on conflict.
	headers := map[string]string{"Content-Type": "application/json"}
	for k, v := range opts.Headers {
		headers[http.CanonicalHeaderKey(k)] = v
	}

	if opts.RequiresAuth {
		if _, explicit := headers["Authorization"]; !explicit {
			token, err := c.lookupToken(ctx)
			if err != nil {
				log.Error("gateway: session lookup failed", "endpoint", endpoint, "err", err)
				return Fail[T](CodeSessionError, "failed to resolve session")
			}
			if token == "" {
				// No session: refuse before touching the network.
				return Fail[T](CodeAuthTokenMissing, "no session token available")
			}
			headers["Authorization"] = "Bearer " + token
		}
	}

	var bodyReader io.Reader
	if method != http.MethodGet && opts.Body != nil {
		payload, err := json.Marshal(opts.Body)
		if err != nil {
			log.Error("gateway: marshal request body failed", "endpoint", endpoint, "err", err)
			return Fail[T](CodeNetworkError, "failed to encode request body")
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+ensureLeadingSlash(endpoint), bodyReader)
	if err != nil {
		log.Error("gateway: build request failed", "endpoint", endpoint, "err", err)
		return Fail[T](CodeNetworkError, "failed to build request")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("gateway: request failed", "endpoint", endpoint, "method", method, "err", err)
		return Fail[T](CodeNetworkError, "network error")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		log.Error("gateway: read response failed", "endpoint", endpoint, "err", err)
		return Fail[T](CodeNetworkError, "failed to read response")
	}

	var res Result[T]
	if err := json.Unmarshal(raw, &res); err != nil {
		log.Error("gateway: decode response failed",
			"endpoint", endpoint,
			"status", resp.StatusCode,
			"err", err,
		)
		return Fail[T](CodeNetworkError, "invalid response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !res.Success {
		log.Warn("gateway: upstream reported failure",
			"endpoint", endpoint,
			"status", resp.StatusCode,
			"code", res.Code,
			"message", res.Message,
		)
		// Upstream code/message pass through verbatim; Success/Data are
		// normalized so the union stays sound even on odd upstream shapes.
		res.Success = false
		res.Data = nil
		if res.Code == "" {
			res.Code = CodeNetworkError
		}
		return res
	}

	return res
}

func (c *Client) lookupToken(ctx context.Context) (token string, err error) {
	if c.sessions == nil {
		return "", nil
	}

	// The session source is caller-provided; a panic there must surface as
	// SESSION_ERROR, not escape to the page handler.
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("session source panicked")
		}
	}()

	return c.sessions.AccessToken(ctx)
}

func ensureLeadingSlash(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "/"
	}
	if strings.HasPrefix(trimmed, "/") {
		return trimmed
	}
	return "/" + trimmed
}
