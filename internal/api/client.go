// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the backend client.
type ClientError struct {
	Type    ErrorType
	Message string
	Status  int
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is match sentinel ClientErrors by type.
func (e *ClientError) Is(target error) bool {
	var ce *ClientError
	if errors.As(target, &ce) {
		return e.Type == ce.Type
	}
	return false
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeUnauthorized
	ErrTypeTimeout
	ErrTypeConnection
	ErrTypeInvalidResponse
	ErrTypeRequest
)

// Sentinel errors for easy checking.
var (
	ErrUnauthorized = &ClientError{Type: ErrTypeUnauthorized, Message: "session expired or invalid"}
	ErrTimeout      = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrConnection   = &ClientError{Type: ErrTypeConnection, Message: "could not reach the server"}
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend root URL; the client appends /api itself
	// (default: http://localhost:5000)
	BaseURL string

	// Timeout for requests (default: 30s)
	Timeout time.Duration

	// RatePerSec caps outbound requests per second (default: 10).
	// The client never retries; this only smooths navigation bursts.
	RatePerSec float64
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:    "http://localhost:5000",
		Timeout:    30 * time.Second,
		RatePerSec: 10,
	}
}

// =============================================================================
// TOKEN SOURCE
// =============================================================================

// TokenSource supplies the current bearer token. An empty string means
// signed out; the request is then sent without an Authorization header.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed-token TokenSource, used in tests and one-shot
// CLI invocations.
type StaticToken string

// Token returns the fixed token.
func (t StaticToken) Token() string { return string(t) }

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the eFine backend API.
//
// The Client is thread-safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	tokens     TokenSource

	mu             sync.RWMutex
	onUnauthorized func()
}

// NewClient creates a new backend client with default configuration.
func NewClient(tokens TokenSource) *Client {
	return NewClientWithConfig(DefaultConfig(), tokens)
}

// NewClientWithConfig creates a new backend client with custom configuration.
func NewClientWithConfig(config *ClientConfig, tokens TokenSource) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:5000"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RatePerSec == 0 {
		config.RatePerSec = 10
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(config.RatePerSec), int(config.RatePerSec)),
		tokens:  tokens,
	}
}

// SetOnUnauthorized registers the hook fired when an authenticated
// request returns 401. The hook runs before the error is returned to the
// caller, so session teardown completes before any caller reacts.
func (c *Client) SetOnUnauthorized(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// apiMessage is the backend's generic message envelope.
type apiMessage struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// do performs a JSON request against /api + path. When authed is true the
// bearer token is attached and a 401 triggers the OnUnauthorized hook;
// unauthenticated calls (login itself) map 401 to a plain request error
// so a wrong password never tears down an existing session.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	return c.request(ctx, method, path, query, body, out, true)
}

// doUnauth is do without the bearer token or 401 teardown.
func (c *Client) doUnauth(ctx context.Context, method, path string, query url.Values, body, out any) error {
	return c.request(ctx, method, path, query, body, out, false)
}

func (c *Client) request(ctx context.Context, method, path string, query url.Values, body, out any, authed bool) error {
	status, data, err := c.roundTrip(ctx, method, path, query, body, authed)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && authed {
		// Teardown runs before the caller sees the error, so a stale
		// session is cleared exactly once no matter who hit the 401.
		c.mu.RLock()
		hook := c.onUnauthorized
		c.mu.RUnlock()
		if hook != nil {
			hook()
		}
		return ErrUnauthorized
	}

	if status >= 400 {
		msg := serverMessage(data)
		if msg == "" {
			msg = "request failed: " + http.StatusText(status)
		}
		return &ClientError{Type: ErrTypeRequest, Message: msg, Status: status}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &ClientError{Type: ErrTypeInvalidResponse, Message: "unexpected response from server", Cause: err}
		}
	}
	return nil
}

// roundTrip performs one HTTP exchange and returns the status code and
// raw body. Transport failures come back as typed errors; HTTP error
// statuses do not, so callers can inspect the body first.
func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body any, authed bool) (int, []byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, nil, &ClientError{Type: ErrTypeUnknown, Message: "request cancelled", Cause: err}
	}

	u := strings.TrimSuffix(c.config.BaseURL, "/") + "/api" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to encode request", Cause: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return 0, nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return 0, nil, ErrTimeout
		}
		var ue *url.Error
		if errors.As(err, &ue) && ue.Timeout() {
			return 0, nil, ErrTimeout
		}
		return 0, nil, &ClientError{Type: ErrTypeConnection, Message: "could not reach the server", Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return 0, nil, &ClientError{Type: ErrTypeConnection, Message: "failed to read response", Cause: err}
	}
	return resp.StatusCode, data, nil
}

// serverMessage extracts the human-readable message from an error body.
func serverMessage(data []byte) string {
	var m apiMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return ""
	}
	if m.Message != "" {
		return m.Message
	}
	return m.Error
}
