package catalog

import (
	"errors"
	"fmt"
	"time"
)

// Failure classes surfaced to callers. Transient conditions (429, 5xx,
// network errors) are absorbed by the retry loop and only escape as a
// MaxRetriesError once the attempt budget is spent.
var (
	// ErrAuthExpired means the bearer credential was rejected. Never
	// retried; the caller has to re-authenticate.
	ErrAuthExpired = errors.New("credential expired")

	// ErrUpstreamUnavailable means the catalog returned a response body
	// that couldn't be decoded.
	ErrUpstreamUnavailable = errors.New("unusable upstream response")

	// ErrEmptyResultSet means the account has no data to aggregate, e.g.
	// a brand-new account with no top artists.
	ErrEmptyResultSet = errors.New("no results for account")
)

// RateLimitedError is returned for a 429 response. RetryAfter carries the
// server's wait hint, or the fallback when the hint was absent or
// unparseable.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}

// StatusError is any other non-2xx response.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.URL, e.Code)
}

// MaxRetriesError is returned once the attempt budget is exhausted. Last
// holds the final observed failure.
type MaxRetriesError struct {
	URL      string
	Attempts uint
	Last     error
}

func (e *MaxRetriesError) Error() string {
	return fmt.Sprintf("giving up on %s after %d attempts: %v", e.URL, e.Attempts, e.Last)
}

func (e *MaxRetriesError) Unwrap() error {
	return e.Last
}
