// Package directory is the client side of the staff directory: it reads and writes
// staff records on the remote directory service and joins them with the department
// table into display-ready profiles.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/atlas/internal/metrics"
	"github.com/google/uuid"
)

// RequestIDHeader carries a per-request correlation id to the directory service.
const RequestIDHeader = "X-Request-ID"

// DefaultTimeout bounds every request when no http.Client is supplied.
const DefaultTimeout = 10 * time.Second

// FetchMode selects how Fetch issues its two reads.
type FetchMode string

const (
	// FetchConcurrent issues both reads at once; the first failure cancels the other.
	FetchConcurrent FetchMode = "concurrent"
	// FetchSequential reads the staff record first and skips the department read if it fails.
	FetchSequential FetchMode = "sequential"
)

// ParseFetchMode converts a configuration value into a FetchMode.
func ParseFetchMode(value string) (FetchMode, error) {
	switch mode := FetchMode(strings.ToLower(strings.TrimSpace(value))); mode {
	case FetchConcurrent, FetchSequential:
		return mode, nil
	case "":
		return FetchConcurrent, nil
	default:
		return "", fmt.Errorf("unknown fetch mode %q", value)
	}
}

// Client talks to the directory service. It holds no per-call state and is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
	metrics *metrics.Metrics
	mode    FetchMode
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

// WithTimeout sets the timeout of the default http.Client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http = &http.Client{Timeout: timeout}
	}
}

// WithFetchMode selects how Fetch issues its reads.
func WithFetchMode(mode FetchMode) Option {
	return func(c *Client) {
		c.mode = mode
	}
}

// NewClient creates a client for the directory service rooted at baseURL.
//
// Parameters:
//   - log: A logger for upstream failures.
//   - appMetrics: Metrics receiving upstream request and join observations.
//   - baseURL: Absolute http(s) address of the directory service.
//   - opts: Optional settings.
//
// Returns:
//   - A pointer to the Client, or an error if baseURL is not an absolute http(s) URL.
func NewClient(log *slog.Logger, appMetrics *metrics.Metrics, baseURL string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base url: %w", err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, fmt.Errorf("base url %q must be an absolute http(s) address", baseURL)
	}

	client := &Client{
		baseURL: strings.TrimRight(parsed.String(), "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		log:     log,
		metrics: appMetrics,
		mode:    FetchConcurrent,
	}
	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// do sends one request and returns the body of a 2xx response.
// Any other outcome is reported as a *TransportError.
func (c *Client) do(ctx context.Context, op, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to encode request body: %w", op, err)
		}
		reader = bytes.NewReader(encoded)
	}

	target := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	startTime := time.Now()
	resp, err := c.http.Do(req)
	c.metrics.UpstreamDuration.WithLabelValues(op).Observe(time.Since(startTime).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(op, "error").Inc()
		c.log.ErrorContext(ctx, "Directory request failed", "op", op, "url", target, "error", err)
		return nil, &TransportError{Op: op, Method: method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	c.metrics.UpstreamRequests.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Method: method, URL: target, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.log.ErrorContext(ctx, "Error response text", "op", op, "status", resp.StatusCode, "body", string(payload))
		return nil, &TransportError{
			Op:         op,
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       string(payload),
		}
	}

	return payload, nil
}

func personPath(id int) string {
	return "/people/" + strconv.Itoa(id)
}
