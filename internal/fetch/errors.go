package fetch

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned for 401, 403, and 404 responses. These are
// terminal for the URL: retrying cannot help, so the enclosing unit of
// work is skipped immediately.
var ErrNotFound = errors.New("resource not found or access denied")

// ErrRunAborted is returned by the crawler when the run-level failure cap
// is reached and the whole run is abandoned.
var ErrRunAborted = errors.New("too many failures, run aborted")

// RateLimitError reports a 429 response. RetryAfter carries the
// server-suggested delay when the Retry-After header was present, zero
// otherwise.
type RateLimitError struct {
	URL        string
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited fetching %s (retry after %s)", e.URL, e.RetryAfter)
	}
	return fmt.Sprintf("rate limited fetching %s", e.URL)
}

// StatusError reports an unexpected HTTP status that is neither terminal
// nor a rate-limit signal. Server errors (5xx) are retryable.
type StatusError struct {
	URL        string
	StatusCode int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d fetching %s", e.StatusCode, e.URL)
}

// Retryable reports whether a failed fetch is worth repeating. Terminal
// not-found outcomes are not; everything else (server errors, rate limits
// that exhausted the client's own budget, transport failures) is.
func Retryable(err error) bool {
	return err != nil && !errors.Is(err, ErrNotFound)
}

// Classify maps an error to a short stable name for failure tallies and
// log output.
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case isRateLimit(err):
		return "rate_limited"
	case isStatus(err):
		return "server_error"
	default:
		return "network"
	}
}

func isRateLimit(err error) bool {
	var rle *RateLimitError
	return errors.As(err, &rle)
}

func isStatus(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}
