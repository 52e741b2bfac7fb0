// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package client

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

	"github.com/cenkalti/backoff/v5"

	httptypes "github.com/canonical/scheduling-service/internal/http/types"
	"github.com/canonical/scheduling-service/internal/logging"
	"github.com/canonical/scheduling-service/internal/types"
	"github.com/canonical/scheduling-service/pkg/authentication"
)

const (
	DefaultMaxTries = 4
	DefaultTimeout  = 30 * time.Second
)

// APIError is a non 2xx answer of the service.
type APIError struct {
	StatusCode int
	Message    string
	RedirectTo string
}

func (e *APIError) Error() string {
	if e.RedirectTo != "" {
		return fmt.Sprintf("%d: %s (see %s)", e.StatusCode, e.Message, e.RedirectTo)
	}
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// Unwrap maps the status back to the error taxonomy so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusServiceUnavailable:
		return types.ErrRemoteUnavailable
	case http.StatusUnauthorized:
		return types.ErrUnauthenticated
	case http.StatusForbidden:
		return types.ErrForbidden
	case http.StatusBadRequest:
		return types.ErrInvalidArgument
	}
	return nil
}

// Client talks to the scheduling service REST API. Requests answered with
// 503 are retried with exponential backoff, transport failures only when the
// request is safe to repeat.
type Client struct {
	baseURL    *url.URL
	token      string
	identityID string
	entityID   string
	maxTries   uint
	newBackOff func() backoff.BackOff
	httpClient *http.Client

	logger logging.LoggerInterface
}

type Option func(*Client)

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithIdentity impersonates identityID through the trusted gateway header,
// honoured only by servers started with TRUST_IDENTITY_HEADER.
func WithIdentity(identityID string) Option {
	return func(c *Client) { c.identityID = identityID }
}

// WithEntity selects which membership of the caller the requests act for.
func WithEntity(entityID string) Option {
	return func(c *Client) { c.entityID = entityID }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithMaxTries(n uint) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxTries = n
		}
	}
}

func WithLogger(logger logging.LoggerInterface) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

type request struct {
	method     string
	path       string
	query      url.Values
	body       interface{}
	idempotent bool
}

func (c *Client) do(ctx context.Context, req request, out interface{}) error {
	var payload []byte
	if req.body != nil {
		b, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		payload = b
	}

	target := c.baseURL.JoinPath(req.path)
	if len(req.query) > 0 {
		target.RawQuery = req.query.Encode()
	}

	operation := func() (struct{}, error) {
		return struct{}{}, c.attempt(ctx, req, target.String(), payload, out)
	}

	_, err := backoff.Retry(
		ctx,
		operation,
		backoff.WithBackOff(c.newBackOff()),
		backoff.WithMaxTries(c.maxTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			c.logger.Debugf("%s %s failed, retrying in %s: %v", req.method, req.path, next, err)
		}),
	)

	return err
}

func (c *Client) attempt(ctx context.Context, req request, target string, payload []byte, out interface{}) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("failed to build request: %w", err))
	}

	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.identityID != "" {
		httpReq.Header.Set(authentication.IdentityHeader, c.identityID)
	}
	if c.entityID != "" {
		httpReq.Header.Set(authentication.EntityHeader, c.entityID)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil || !req.idempotent {
			return backoff.Permanent(fmt.Errorf("%s %s: %w", req.method, req.path, err))
		}
		return fmt.Errorf("%w: %v", types.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := decodeError(resp)

		if resp.StatusCode != http.StatusServiceUnavailable {
			return backoff.Permanent(apiErr)
		}

		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
			return errors.Join(apiErr, backoff.RetryAfter(secs))
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return backoff.Permanent(fmt.Errorf("failed to decode response: %w", err))
	}

	return nil
}

func decodeError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var body httptypes.ErrorResponse
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		apiErr.Message = body.Message
		apiErr.RedirectTo = body.RedirectTo
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(string(raw))
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	return apiErr
}

// IsRetryable reports whether err is worth retrying later.
func IsRetryable(err error) bool {
	return errors.Is(err, types.ErrRemoteUnavailable)
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", baseURL)
	}

	c := &Client{
		baseURL:    u,
		maxTries:   DefaultMaxTries,
		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     logging.NewNoopLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}
