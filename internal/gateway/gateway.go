// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package gateway performs authenticated JSON requests against the remote
// vehicle store.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/toeirei/fleetmaster/internal/logging"
)

const (
	DefaultBaseURL = "http://localhost:3001"
	DefaultTimeout = 30 * time.Second

	// RequestIDHeader carries a per-call uuid the store can log.
	RequestIDHeader = "X-Request-Id"
)

// ErrRequestFailed matches every error returned by Call.
var ErrRequestFailed = errors.New("request failed")

// TokenSource yields the bearer token attached to each request.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// RequestError describes a failed call. Status is zero when no response
// was received.
type RequestError struct {
	Method  string
	Path    string
	Status  int
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", e.Method, e.Path)
	if e.Status != 0 {
		fmt.Fprintf(&b, ": status %d", e.Status)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *RequestError) Unwrap() error { return e.Err }

func (e *RequestError) Is(target error) bool { return target == ErrRequestFailed }

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithTimeout sets the per-request timeout. Zero keeps DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// Client is the fetch gateway. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// New builds a Client that authenticates every call through tokens.
func New(tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: DefaultTimeout},
		tokens:  tokens,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the store address requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

// Call sends body (when non-nil) as JSON to path and decodes the response
// into out (when non-nil). An empty response body is a success that leaves
// out untouched. Every failure is logged and returned as *RequestError.
func (c *Client) Call(ctx context.Context, method, path string, body, out any) error {
	method = strings.ToUpper(strings.TrimSpace(method))
	err := c.call(ctx, method, path, body, out)
	if err != nil {
		logging.Errorf("gateway: %v", err)
	}
	return err
}

func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	fail := func(status int, msg string, err error) error {
		return &RequestError{Method: method, Path: path, Status: status, Message: msg, Err: err}
	}

	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return fail(0, "access token unavailable", err)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fail(0, "encode body", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+ensureLeadingSlash(path), reader)
	if err != nil {
		return fail(0, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(RequestIDHeader, uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return fail(0, "", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(resp.StatusCode, "read body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(resp.StatusCode, serverMessage(data, resp.Status), nil)
	}

	if len(bytes.TrimSpace(data)) == 0 || out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fail(resp.StatusCode, "decode body", err)
	}
	return nil
}

// serverMessage extracts {"error": "..."} from a failure body, falling back
// to the HTTP status text.
func serverMessage(data []byte, status string) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return status
}

func ensureLeadingSlash(p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}
	return "/" + p
}
