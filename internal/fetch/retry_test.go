package fetch

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestRetryPolicyDo tests the linear-backoff retry wrapper.
func TestRetryPolicyDo(t *testing.T) {
	t.Parallel()

	t.Run("two failures then success records exactly two backoff sleeps", func(t *testing.T) {
		t.Parallel()

		var sleeps []time.Duration
		p := NewRetryPolicy(3, 2*time.Second)
		p.sleep = func(_ context.Context, d time.Duration) error {
			sleeps = append(sleeps, d)
			return nil
		}

		calls := 0
		err := p.Do(context.Background(), "test", func() error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		})

		if err != nil {
			t.Fatalf("Do() error: %v", err)
		}
		if calls != 3 {
			t.Errorf("calls = %d, want 3", calls)
		}
		if len(sleeps) != 2 {
			t.Fatalf("recorded %d sleeps, want 2", len(sleeps))
		}
		// Linear backoff: base * attempt number.
		if sleeps[0] != 2*time.Second || sleeps[1] != 4*time.Second {
			t.Errorf("sleeps = %v, want [2s 4s]", sleeps)
		}
	})

	t.Run("exhausted budget propagates the last error", func(t *testing.T) {
		t.Parallel()

		p := NewRetryPolicy(3, time.Millisecond)
		p.sleep = func(context.Context, time.Duration) error { return nil }

		wantErr := errors.New("still broken")
		calls := 0
		err := p.Do(context.Background(), "test", func() error {
			calls++
			return wantErr
		})

		if !errors.Is(err, wantErr) {
			t.Errorf("Do() = %v, want last error", err)
		}
		if calls != 3 {
			t.Errorf("calls = %d, want 3", calls)
		}
	})

	t.Run("not-found is terminal and never retried", func(t *testing.T) {
		t.Parallel()

		p := NewRetryPolicy(3, time.Millisecond)
		p.sleep = func(context.Context, time.Duration) error {
			t.Error("slept for a terminal failure")
			return nil
		}

		calls := 0
		err := p.Do(context.Background(), "test", func() error {
			calls++
			return ErrNotFound
		})

		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Do() = %v, want ErrNotFound", err)
		}
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
	})

	t.Run("cancelled context stops the backoff", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		p := NewRetryPolicy(3, time.Hour)

		err := p.Do(ctx, "test", func() error { return errors.New("transient") })
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Do() = %v, want context.Canceled", err)
		}
	})
}

// TestRateLimiterWait tests the shared pacing clock.
func TestRateLimiterWait(t *testing.T) {
	t.Parallel()

	t.Run("first request is not delayed beyond the drawn interval since zero", func(t *testing.T) {
		t.Parallel()

		var slept time.Duration
		l := NewRateLimiter(0, 0)
		now := time.Unix(1000, 0)
		l.now = func() time.Time { return now }
		l.sleep = func(_ context.Context, d time.Duration) error {
			slept += d
			return nil
		}

		if err := l.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() error: %v", err)
		}
		if slept != 0 {
			t.Errorf("slept %v with zero delay bounds", slept)
		}
	})

	t.Run("second request waits the remainder of the drawn delay", func(t *testing.T) {
		t.Parallel()

		// min == max pins the drawn delay to exactly 3s.
		l := NewRateLimiter(3*time.Second, 3*time.Second)

		current := time.Unix(1000, 0)
		l.now = func() time.Time { return current }

		var slept []time.Duration
		l.sleep = func(_ context.Context, d time.Duration) error {
			slept = append(slept, d)
			current = current.Add(d)
			return nil
		}

		if err := l.Wait(context.Background()); err != nil {
			t.Fatal(err)
		}

		// One second passes, then the next request arrives.
		current = current.Add(1 * time.Second)
		if err := l.Wait(context.Background()); err != nil {
			t.Fatal(err)
		}

		if len(slept) == 0 {
			t.Fatal("second request did not sleep")
		}
		last := slept[len(slept)-1]
		if last != 2*time.Second {
			t.Errorf("second request slept %v, want 2s (3s delay minus 1s elapsed)", last)
		}
	})

	t.Run("reset clears the pacing clock", func(t *testing.T) {
		t.Parallel()

		l := NewRateLimiter(3*time.Second, 3*time.Second)
		current := time.Unix(2000, 0)
		l.now = func() time.Time { return current }

		var slept time.Duration
		l.sleep = func(_ context.Context, d time.Duration) error {
			slept += d
			return nil
		}

		if err := l.Wait(context.Background()); err != nil {
			t.Fatal(err)
		}
		l.Reset()
		slept = 0
		if err := l.Wait(context.Background()); err != nil {
			t.Fatal(err)
		}
		if slept != 0 {
			t.Errorf("slept %v after Reset, want 0", slept)
		}
	})
}

// TestFailureTally tests the circuit-breaker counters.
func TestFailureTally(t *testing.T) {
	t.Parallel()

	t.Run("consecutive breaker trips and resets", func(t *testing.T) {
		t.Parallel()

		tally := NewFailureTally(3, 100)

		tally.RecordFailure("PHP", ErrNotFound)
		tally.RecordFailure("PHP", &StatusError{StatusCode: 500})
		if tally.CategoryExhausted("PHP") {
			t.Error("breaker tripped early")
		}

		tally.RecordFailure("PHP", errors.New("timeout"))
		if !tally.CategoryExhausted("PHP") {
			t.Error("breaker did not trip at threshold")
		}

		tally.ResetConsecutive("PHP")
		if tally.CategoryExhausted("PHP") {
			t.Error("breaker still tripped after reset")
		}
	})

	t.Run("success breaks the streak", func(t *testing.T) {
		t.Parallel()

		tally := NewFailureTally(2, 100)
		tally.RecordFailure("PHP", ErrNotFound)
		tally.RecordSuccess("PHP")
		tally.RecordFailure("PHP", ErrNotFound)
		if tally.CategoryExhausted("PHP") {
			t.Error("streak survived a success")
		}
	})

	t.Run("streaks are independent per category", func(t *testing.T) {
		t.Parallel()

		tally := NewFailureTally(2, 100)

		// Interleave two categories the way concurrent workers would.
		tally.RecordFailure("PHP", ErrNotFound)
		tally.RecordSuccess("Drupal")
		tally.RecordFailure("PHP", ErrNotFound)

		if !tally.CategoryExhausted("PHP") {
			t.Error("another category's success broke the streak")
		}
		if tally.CategoryExhausted("Drupal") {
			t.Error("streak leaked into another category")
		}

		tally.ResetConsecutive("Drupal")
		if !tally.CategoryExhausted("PHP") {
			t.Error("another category's reset cleared the streak")
		}
	})

	t.Run("run breaker counts totals across categories", func(t *testing.T) {
		t.Parallel()

		tally := NewFailureTally(100, 2)
		tally.RecordFailure("PHP", ErrNotFound)
		tally.ResetConsecutive("PHP")
		tally.RecordFailure("Drupal", ErrNotFound)
		if !tally.RunExhausted() {
			t.Error("run breaker did not trip")
		}
	})

	t.Run("summary groups by classification", func(t *testing.T) {
		t.Parallel()

		tally := NewFailureTally(0, 0)
		tally.RecordFailure("PHP", ErrNotFound)
		tally.RecordFailure("PHP", ErrNotFound)
		tally.RecordFailure("PHP", &RateLimitError{URL: "https://example.com"})
		tally.RecordFailure("Drupal", &StatusError{StatusCode: 502})
		tally.RecordFailure("Drupal", errors.New("dial tcp: timeout"))

		got := tally.Summary()
		want := map[string]int{"not_found": 2, "rate_limited": 1, "server_error": 1, "network": 1}
		for k, v := range want {
			if got[k] != v {
				t.Errorf("Summary()[%q] = %d, want %d", k, got[k], v)
			}
		}
	})
}
