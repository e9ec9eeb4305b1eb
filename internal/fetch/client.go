package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"
)

// Fetcher is the contract the crawler depends on: fetch a URL, get back a
// body or a classified failure. The crawler never touches net/http
// directly, which keeps extraction testable against canned HTML.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Result, error)
}

// Result is one successful fetch.
type Result struct {
	// URL is the fetched address.
	URL string

	// StatusCode is the HTTP status, always 2xx on the success path.
	StatusCode int

	// Body is the raw response body, bounded by the client's body limit.
	Body []byte
}

// DefaultMaxBodySize bounds response bodies. Directory pages are heavy
// but a page past this size is not a page we can use.
const DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

// rateLimitBaseDelay is the escalation base when a 429 carries no
// Retry-After header: attempt n waits n times this value.
const rateLimitBaseDelay = 30 * time.Second

// Client is the HTTP Fetcher. Every request passes through the shared
// RateLimiter first, carries a User-Agent drawn from the rotation pool,
// and has its response classified per the package taxonomy. Rate-limit
// responses are recovered inside Fetch with their own escalating backoff
// and budget, distinct from the caller-level RetryPolicy.
type Client struct {
	httpClient *http.Client
	limiter    *RateLimiter
	userAgents []string

	// maxBodySize limits response body reads.
	maxBodySize int64

	// rateLimitRetries is the 429 recovery budget per Fetch call.
	rateLimitRetries int

	logger *slog.Logger

	// sleep is injectable for tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithUserAgents sets the User-Agent rotation pool.
func WithUserAgents(agents []string) ClientOption {
	return func(c *Client) {
		if len(agents) > 0 {
			c.userAgents = agents
		}
	}
}

// WithMaxBodySize sets the response body size limit.
func WithMaxBodySize(size int64) ClientOption {
	return func(c *Client) {
		c.maxBodySize = size
	}
}

// WithRateLimitRetries sets the per-fetch recovery budget for 429
// responses.
func WithRateLimitRetries(n int) ClientOption {
	return func(c *Client) {
		c.rateLimitRetries = n
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client with the given request timeout and shared
// rate limiter. The limiter must be shared across every client in a run
// to preserve global pacing.
func NewClient(timeout time.Duration, limiter *RateLimiter, opts ...ClientOption) *Client {
	c := &Client{
		httpClient:       &http.Client{Timeout: timeout},
		limiter:          limiter,
		userAgents:       []string{"clutchscan/1.0"},
		maxBodySize:      DefaultMaxBodySize,
		rateLimitRetries: 2,
		sleep:            sleepContext,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// Fetch retrieves url, pacing through the shared limiter and recovering
// from rate limiting with an escalating delay: the server-suggested
// Retry-After when present, otherwise 30s, 60s, ... per attempt. After
// the recovery budget is spent the RateLimitError propagates so the
// caller can count and skip the unit.
func (c *Client) Fetch(ctx context.Context, url string) (*Result, error) {
	var lastErr error

	for attempt := 1; attempt <= c.rateLimitRetries+1; attempt++ {
		result, err := c.fetchOnce(ctx, url)
		if err == nil {
			return result, nil
		}
		lastErr = err

		rle, ok := err.(*RateLimitError)
		if !ok || attempt > c.rateLimitRetries {
			return nil, err
		}

		delay := rle.RetryAfter
		if delay <= 0 {
			delay = rateLimitBaseDelay * time.Duration(attempt)
		}

		c.logger.Warn("rate limited, backing off",
			"url", url,
			"attempt", attempt,
			"delay", delay,
		)

		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

// fetchOnce performs one paced request and classifies the response.
func (c *Client) fetchOnce(ctx context.Context, url string) (*Result, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}

	req.Header.Set("User-Agent", c.userAgents[rand.IntN(len(c.userAgents))])
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	c.logger.Debug("fetching", "url", url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// Fall through to body read.
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &RateLimitError{URL: url, RetryAfter: retryAfter(resp)}
	case resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden,
		resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", url, ErrNotFound)
	default:
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", url, err)
	}

	return &Result{
		URL:        url,
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}

// retryAfter reads the Retry-After header as delay seconds. HTTP-date
// forms are ignored; the caller falls back to the escalating default.
func retryAfter(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
