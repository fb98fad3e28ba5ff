// Package backend is a client for the savings pod REST API.
//
// The API is versioned under a base path (e.g. https://api.example.com/v1) and
// authenticates members with a bearer token. The token itself is opaque here
// apart from its expiry.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/jrsteele09/podsave-web/internal/errors"
	"golang.org/x/oauth2"
)

const maxErrorBody = 4 << 10

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Code    string
	Message string
	kind    error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("backend returned %d (%s): %s", e.Status, e.Code, msg)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, msg)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	now     func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (its Transport is reused
// for authorised calls).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithClock overrides the time source used to turn expires_in into a timestamp.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{},
		timeout: timeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// authorised returns an HTTP client that sends token as a bearer credential.
func (c *Client) authorised(ctx context.Context, token string) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))
}

func (c *Client) doAnonymous(ctx context.Context, method, path string, in, out any) error {
	return c.do(ctx, c.http, method, path, in, out)
}

func (c *Client) doAuthorised(ctx context.Context, token, method, path string, in, out any) error {
	if token == "" {
		return fmt.Errorf("[backend] %s %s: %w", method, path, apperrors.ErrUnauthorized)
	}
	return c.do(ctx, c.authorised(ctx, token), method, path, in, out)
}

func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("[backend] failed to encode %s %s request: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("[backend] failed to build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("[backend] %s %s: %w: %w", method, path, apperrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("[backend] %s %s: %w", method, path, readAPIError(resp))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("[backend] failed to decode %s %s response: %w: %w", method, path, apperrors.ErrUpstream, err)
	}
	return nil
}

// NewAPIError builds the error for a non-2xx status, classified the same way
// as answers read off the wire.
func NewAPIError(status int, code, message string) *APIError {
	return &APIError{Status: status, Code: code, Message: message, kind: kindForStatus(status)}
}

func kindForStatus(status int) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperrors.ErrUnauthorized
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return apperrors.ErrInvalidRequest
	case http.StatusNotFound:
		return apperrors.ErrNotFound
	case http.StatusTooManyRequests:
		return apperrors.ErrRateLimited
	default:
		return apperrors.ErrUpstream
	}
}

func readAPIError(resp *http.Response) *APIError {
	apiErr := NewAPIError(resp.StatusCode, "", "")

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.Code = body.Error
		apiErr.Message = body.Message
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}
