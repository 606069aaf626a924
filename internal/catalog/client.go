package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/avast/retry-go"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://api.spotify.com/v1"

// Wait applied to a 429 when the server doesn't send a usable hint.
const fallbackRetryAfter = 5 * time.Second

type Config struct {
	// Bearer credential. Issuance and refresh happen elsewhere; the
	// client only attaches it.
	Token string

	BaseURL string

	// Total attempts per request, including the first.
	MaxRetries uint

	// First backoff delay; doubles per attempt for non-429 failures.
	BaseDelay time.Duration

	// Minimum spacing between paginated page requests.
	PageInterval time.Duration
}

type Client struct {
	http       *http.Client
	baseURL    string
	maxRetries uint
	baseDelay  time.Duration
	limiter    *rate.Limiter
}

func New(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 4
	}
	if config.BaseDelay == 0 {
		config.BaseDelay = 500 * time.Millisecond
	}
	if config.PageInterval == 0 {
		config.PageInterval = 250 * time.Millisecond
	}

	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: config.Token})
	return &Client{
		http:       oauth2.NewClient(context.Background(), source),
		baseURL:    config.BaseURL,
		maxRetries: config.MaxRetries,
		baseDelay:  config.BaseDelay,
		limiter:    rate.NewLimiter(rate.Every(config.PageInterval), 1),
	}
}

// get issues a GET with retries and decodes the JSON body into out.
// 429s wait out the server hint, other retryable failures back off
// exponentially, and a 401 fails immediately as ErrAuthExpired.
func (c *Client) get(ctx context.Context, url string, out interface{}) error {
	err := retry.Do(
		func() error {
			return c.fetchOnce(ctx, url, out)
		},
		retry.Attempts(c.maxRetries),
		retry.Delay(c.baseDelay),
		retry.DelayType(retryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return ctx.Err() == nil && shouldRetry(err)
		}),
	)
	if err == nil || ctx.Err() != nil || !shouldRetry(err) {
		return err
	}
	return &MaxRetriesError{URL: url, Attempts: c.maxRetries, Last: err}
}

// Retryable failures are rate limits, server errors and transport
// errors. Expired credentials and other client errors won't get better
// on their own.
func shouldRetry(err error) bool {
	if errors.Is(err, ErrAuthExpired) {
		return false
	}
	var status *StatusError
	if errors.As(err, &status) {
		return status.Code >= 500
	}
	return true
}

func retryDelay(n uint, err error, config *retry.Config) time.Duration {
	var limited *RateLimitedError
	if errors.As(err, &limited) {
		return limited.RetryAfter
	}
	return retry.BackOffDelay(n, err, config)
}

func (c *Client) fetchOnce(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("fetching %s: %w", url, ErrAuthExpired)

	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitedError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}

	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &StatusError{Code: resp.StatusCode, URL: url}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w: %v", url, ErrUpstreamUnavailable, err)
	}
	return nil
}

func parseRetryAfter(header string) time.Duration {
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		return fallbackRetryAfter
	}
	return time.Duration(seconds) * time.Second
}
