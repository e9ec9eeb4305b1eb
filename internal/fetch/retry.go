package fetch

import (
	"context"
	"log/slog"
	"time"
)

// RetryPolicy wraps a fallible operation with bounded linear backoff:
// attempt n is followed by a sleep of n times BaseDelay. After the budget
// is exhausted the last error propagates to the caller. The attempt
// counter is local to one Do call.
//
// Design decision: Linear rather than exponential backoff here. Rate-limit
// responses already get their own steeper escalation inside Client.Fetch;
// this wrapper covers everything else (timeouts, transient 5xx), where a
// gentle ramp recovers faster without hammering the site.
type RetryPolicy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int

	// BaseDelay is the linear backoff unit.
	BaseDelay time.Duration

	logger *slog.Logger

	// sleep is injectable for tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// RetryOption configures a RetryPolicy.
type RetryOption func(*RetryPolicy)

// WithRetryLogger sets a custom logger.
func WithRetryLogger(logger *slog.Logger) RetryOption {
	return func(p *RetryPolicy) {
		p.logger = logger
	}
}

// NewRetryPolicy creates a policy with the given attempt budget and
// backoff base.
func NewRetryPolicy(maxAttempts int, baseDelay time.Duration, opts ...RetryOption) *RetryPolicy {
	p := &RetryPolicy{
		MaxAttempts: maxAttempts,
		BaseDelay:   baseDelay,
		sleep:       sleepContext,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// Do runs fn, retrying retryable failures with linear backoff. Terminal
// failures (ErrNotFound) and context cancellation stop immediately. The
// operation name is only used for logging.
func (p *RetryPolicy) Do(ctx context.Context, name string, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if !Retryable(lastErr) {
			return lastErr
		}

		if attempt < p.MaxAttempts {
			delay := p.BaseDelay * time.Duration(attempt)
			p.logger.Warn("operation failed, retrying",
				"operation", name,
				"attempt", attempt,
				"max_attempts", p.MaxAttempts,
				"delay", delay,
				"error", lastErr,
			)
			if err := p.sleep(ctx, delay); err != nil {
				return err
			}
		}
	}

	p.logger.Error("operation failed after all attempts",
		"operation", name,
		"attempts", p.MaxAttempts,
		"error", lastErr,
	)
	return lastErr
}
