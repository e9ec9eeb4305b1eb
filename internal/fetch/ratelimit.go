package fetch

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"
)

// RateLimiter enforces a random politeness delay between consecutive
// requests. One limiter is shared by every fetch in a run: it records the
// timestamp of the last dispatched request and makes each caller wait
// until a freshly drawn delay in [min, max] has elapsed since then.
//
// Design decision: We pace against a single shared clock rather than
// per-worker delays because the invariant we need is per-host: no matter
// how many categories are crawled concurrently, the site sees at most one
// request per drawn interval. The mutex is held across the sleep to
// serialize dispatch order as well as spacing.
type RateLimiter struct {
	mu  sync.Mutex
	min time.Duration
	max time.Duration

	// last is the dispatch time of the previous request.
	last time.Time

	// now and sleep are injectable for tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRateLimiter creates a limiter with the given delay bounds.
// min must be <= max; Config.Validate guarantees this upstream.
func NewRateLimiter(min, max time.Duration) *RateLimiter {
	return &RateLimiter{
		min:   min,
		max:   max,
		now:   time.Now,
		sleep: sleepContext,
	}
}

// Wait blocks until the politeness delay has elapsed since the previous
// request, then records the current time as the new dispatch timestamp.
// It returns early with the context's error on cancellation.
func (l *RateLimiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delay := l.min
	if l.max > l.min {
		delay += rand.N(l.max - l.min)
	}

	elapsed := l.now().Sub(l.last)
	if remaining := delay - elapsed; remaining > 0 {
		if err := l.sleep(ctx, remaining); err != nil {
			return err
		}
	}

	l.last = l.now()
	return nil
}

// Reset clears the pacing clock so the next request is not delayed.
func (l *RateLimiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.last = time.Time{}
}

// sleepContext sleeps for d or until the context is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
