package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestClientFetch(t *testing.T) {
	t.Parallel()

	t.Run("successful response returns the body", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ua := r.Header.Get("User-Agent"); ua != "test-agent" {
				t.Errorf("User-Agent = %q, want test-agent", ua)
			}
			w.Write([]byte("<html>ok</html>"))
		}))
		defer srv.Close()

		c := NewClient(5*time.Second, NewRateLimiter(0, 0),
			WithUserAgents([]string{"test-agent"}))

		result, err := c.Fetch(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
		if got, want := string(result.Body), "<html>ok</html>"; got != want {
			t.Errorf("Body = %q, want %q", got, want)
		}
		if result.StatusCode != http.StatusOK {
			t.Errorf("StatusCode = %d, want 200", result.StatusCode)
		}
	})

	t.Run("access denial statuses map to ErrNotFound", func(t *testing.T) {
		t.Parallel()

		for _, code := range []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound} {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(code)
			}))

			c := NewClient(5*time.Second, NewRateLimiter(0, 0))
			_, err := c.Fetch(context.Background(), srv.URL)
			srv.Close()

			if !errors.Is(err, ErrNotFound) {
				t.Errorf("status %d: Fetch() = %v, want ErrNotFound", code, err)
			}
			if Retryable(err) {
				t.Errorf("status %d treated as retryable", code)
			}
		}
	})

	t.Run("server error returns a retryable StatusError", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		c := NewClient(5*time.Second, NewRateLimiter(0, 0))
		_, err := c.Fetch(context.Background(), srv.URL)

		var se *StatusError
		if !errors.As(err, &se) {
			t.Fatalf("Fetch() = %v, want *StatusError", err)
		}
		if se.StatusCode != http.StatusBadGateway {
			t.Errorf("StatusCode = %d, want 502", se.StatusCode)
		}
		if !Retryable(err) {
			t.Error("server error not retryable")
		}
	})

	t.Run("rate limiting recovers with the Retry-After delay", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.Header().Set("Retry-After", "7")
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.Write([]byte("recovered"))
		}))
		defer srv.Close()

		var slept []time.Duration
		c := NewClient(5*time.Second, NewRateLimiter(0, 0))
		c.sleep = func(_ context.Context, d time.Duration) error {
			slept = append(slept, d)
			return nil
		}

		result, err := c.Fetch(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
		if string(result.Body) != "recovered" {
			t.Errorf("Body = %q, want recovered", result.Body)
		}
		if len(slept) != 1 || slept[0] != 7*time.Second {
			t.Errorf("slept %v, want [7s]", slept)
		}
	})

	t.Run("rate limiting escalates without Retry-After", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		var slept []time.Duration
		c := NewClient(5*time.Second, NewRateLimiter(0, 0), WithRateLimitRetries(2))
		c.sleep = func(_ context.Context, d time.Duration) error {
			slept = append(slept, d)
			return nil
		}

		_, err := c.Fetch(context.Background(), srv.URL)

		var rle *RateLimitError
		if !errors.As(err, &rle) {
			t.Fatalf("Fetch() = %v, want *RateLimitError after exhausted budget", err)
		}
		if len(slept) != 2 || slept[0] != 30*time.Second || slept[1] != 60*time.Second {
			t.Errorf("slept %v, want [30s 1m0s]", slept)
		}
	})

	t.Run("oversized bodies are truncated at the limit", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write(make([]byte, 4096))
		}))
		defer srv.Close()

		c := NewClient(5*time.Second, NewRateLimiter(0, 0), WithMaxBodySize(1024))
		result, err := c.Fetch(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
		if len(result.Body) != 1024 {
			t.Errorf("len(Body) = %d, want 1024", len(result.Body))
		}
	})
}
