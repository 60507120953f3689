// Package http provides a REST client with retry logic for JSON APIs.
// It wraps the retryablehttp.Client from HashiCorp, exposes functional
// options for timeouts and retry behavior and reports non-2xx answers as
// *StatusError values so callers can branch on the status code.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// ErrUnexpectedStatus is matched (via errors.Is) by every *StatusError.
var ErrUnexpectedStatus = errors.New("unexpected http status")

// StatusError describes a response whose status code was not 2xx.
type StatusError struct {
	StatusCode int    // HTTP status code returned by the server
	URL        string // requested URL
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d %s (%s)", ErrUnexpectedStatus, e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// Unwrap exposes ErrUnexpectedStatus to errors.Is.
func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// IsNotFound reports whether err is a *StatusError carrying a 404.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}

// Client performs JSON requests against REST endpoints.
type Client interface {
	// GetJSON issues a GET to url and decodes the JSON body into out.
	// A non-2xx answer returns a *StatusError and leaves out untouched.
	GetJSON(ctx context.Context, url string, out any) error
}

// config holds internal settings for the HTTP client.
type config struct {
	timeout      time.Duration // maximum duration for a single HTTP request
	retryWaitMin time.Duration // minimum delay between retry attempts
	retryWaitMax time.Duration // maximum delay between retry attempts
	retryMax     int           // maximum number of retry attempts
	userAgent    string        // User-Agent header sent with every request
}

// Option defines a functional option for configuring the HTTP client.
type Option func(*config)

// client is the default Client implementation backed by retryablehttp.
type client struct {
	conn      *retryablehttp.Client
	userAgent string
}

// Compile-time assertion that client implements the Client interface.
var _ Client = (*client)(nil)

// GetJSON implements Client.
func (c *client) GetJSON(ctx context.Context, url string, out any) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	res, err := c.conn.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, res.Body)
		return &StatusError{StatusCode: res.StatusCode, URL: url}
	}

	return json.NewDecoder(res.Body).Decode(out)
}

// NewClient creates a retrying REST client. If no options are given, default
// values are used:
//
//   - timeout:      5 seconds
//   - retryWaitMin: 1 second
//   - retryWaitMax: 5 seconds
//   - retryMax:     2 retries
func NewClient(opts ...Option) *client {
	cfg := config{
		timeout:      5 * time.Second,
		retryWaitMin: 1 * time.Second,
		retryWaitMax: 5 * time.Second,
		retryMax:     2,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	conn := retryablehttp.NewClient()
	conn.Logger = nil
	conn.HTTPClient.Timeout = cfg.timeout
	conn.RetryWaitMin = cfg.retryWaitMin
	conn.RetryWaitMax = cfg.retryWaitMax
	conn.RetryMax = cfg.retryMax

	return &client{
		conn:      conn,
		userAgent: cfg.userAgent,
	}
}

// WithTimeout sets the maximum duration allowed for a single HTTP request.
// Default: 5 seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithRetryWaitMin sets the minimum delay between retry attempts.
// Default: 1 second.
func WithRetryWaitMin(d time.Duration) Option {
	return func(c *config) {
		c.retryWaitMin = d
	}
}

// WithRetryWaitMax sets the maximum delay between retry attempts.
// Default: 5 seconds.
func WithRetryWaitMax(d time.Duration) Option {
	return func(c *config) {
		c.retryWaitMax = d
	}
}

// WithRetryMax sets the maximum number of retry attempts for failed requests.
// Default: 2 retries.
func WithRetryMax(n int) Option {
	return func(c *config) {
		c.retryMax = n
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *config) {
		c.userAgent = ua
	}
}
