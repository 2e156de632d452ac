// Package http provides the HTTP transport used to publish to ntfy servers,
// with retry logic and a health probe.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/sharkusmanch/ntfy-publisher/pkg/ntfy"
	"github.com/sharkusmanch/ntfy-publisher/pkg/version"
)

// RetryConfig configures retry behavior for the HTTP client.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including the first).
	MaxAttempts int

	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration

	// MaxDelay caps the exponential back-off.
	MaxDelay time.Duration
}

// DefaultRetryConfig returns the retry configuration used when none is given.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 2 * time.Second,
		MaxDelay:     30 * time.Second,
	}
}

// Client is an HTTP client with retry logic. It implements ntfy.Transport.
type Client struct {
	httpClient *http.Client
	retry      RetryConfig
	userAgent  string
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithRetryConfig sets the retry configuration.
func WithRetryConfig(cfg RetryConfig) ClientOption {
	return func(c *Client) {
		c.retry = cfg
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the per-attempt timeout of the underlying client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new HTTP client with retry capabilities.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		retry:     DefaultRetryConfig(),
		userAgent: version.Get().UserAgent(),
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// Publish sends a compiled ntfy request. Transport failures and retryable
// statuses are retried; whatever the last attempt returned is handed back.
func (c *Client) Publish(ctx context.Context, req ntfy.Request) (ntfy.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, strings.NewReader(req.Body))
	if err != nil {
		return ntfy.Response{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for _, h := range req.Headers {
		httpReq.Header.Set(h.Name, h.Value)
	}

	resp, err := c.Do(ctx, httpReq)
	if err != nil {
		return ntfy.Response{}, err
	}

	return ntfy.Response{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Headers),
		Body:       string(resp.Body),
	}, nil
}

// Do performs an HTTP request with retry logic.
func (c *Client) Do(ctx context.Context, req *http.Request) (*Response, error) {
	var payload []byte
	if req.Body != nil {
		var err error
		payload, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		_ = req.Body.Close()
	}
	if req.Header.Get("User-Agent") == "" && c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	var lastErr error
	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		attemptReq := req.Clone(ctx)
		if payload != nil {
			attemptReq.Body = io.NopCloser(bytes.NewReader(payload))
			attemptReq.ContentLength = int64(len(payload))
		}

		c.logger.Debug("HTTP request attempt",
			"method", req.Method,
			"url", req.URL.Redacted(),
			"attempt", attempt,
			"max_attempts", c.retry.MaxAttempts,
		)

		resp, err := c.roundTrip(attemptReq)
		if err != nil {
			lastErr = err
			c.logger.Warn("HTTP request failed",
				"method", req.Method,
				"url", req.URL.Redacted(),
				"attempt", attempt,
				"error", err,
			)
		} else if c.shouldRetry(resp.StatusCode) && attempt < c.retry.MaxAttempts {
			lastErr = fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(resp.Body))
			c.logger.Warn("HTTP request returned retryable status",
				"status", resp.StatusCode,
				"attempt", attempt,
			)
		} else {
			return resp, nil
		}

		if attempt == c.retry.MaxAttempts {
			break
		}
		if err := c.wait(ctx, attempt); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", c.retry.MaxAttempts, lastErr)
}

// roundTrip performs one attempt and reads the whole body.
func (c *Client) roundTrip(req *http.Request) (*Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
		Headers:    resp.Header,
	}, nil
}

// wait sleeps for the back-off of the given attempt or until ctx is done.
func (c *Client) wait(ctx context.Context, attempt int) error {
	delay := c.calculateDelay(attempt)
	c.logger.Debug("Retrying after delay", "delay", delay)

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// calculateDelay calculates the delay for a given attempt using exponential backoff.
func (c *Client) calculateDelay(attempt int) time.Duration {
	// initialDelay * 2^(attempt-1)
	delay := float64(c.retry.InitialDelay) * math.Pow(2, float64(attempt-1))

	if delay > float64(c.retry.MaxDelay) {
		return c.retry.MaxDelay
	}

	return time.Duration(delay)
}

// shouldRetry returns true if the status code indicates a retryable error.
func (c *Client) shouldRetry(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// CheckConnectivity performs a simple connectivity check to the given URL.
func (c *Client) CheckConnectivity(ctx context.Context, url string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.roundTrip(req)
	if err != nil {
		return fmt.Errorf("connectivity check failed: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	return fmt.Errorf("connectivity check returned status %d", resp.StatusCode)
}

// CheckHealth queries the ntfy health endpoint of server.
func (c *Client) CheckHealth(ctx context.Context, server string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	healthURL := strings.TrimSuffix(server, "/") + "/v1/health"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.roundTrip(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	var health struct {
		Healthy bool `json:"healthy"`
	}
	if err := json.Unmarshal(resp.Body, &health); err != nil {
		return fmt.Errorf("failed to decode health response: %w", err)
	}
	if !health.Healthy {
		return fmt.Errorf("server at %s reports unhealthy", server)
	}

	return nil
}

func flattenHeaders(h http.Header) []ntfy.Header {
	var headers []ntfy.Header
	for name, values := range h {
		for _, v := range values {
			headers = append(headers, ntfy.Header{Name: name, Value: v})
		}
	}
	return headers
}

// Ensure Client implements ntfy.Transport.
var _ ntfy.Transport = (*Client)(nil)
