// Package fetch provides paced, retrying HTTP access to the directory site.
//
// # Components
//
//   - Fetcher: the contract the crawler depends on (fetch a URL, get a body
//     or a classified failure)
//   - Client: the HTTP implementation with User-Agent rotation and
//     rate-limit recovery
//   - RateLimiter: the single shared pacing clock; every request waits a
//     random delay relative to the previous request, across all workers
//   - RetryPolicy: linear-backoff retry wrapper for fetch-dependent units
//     of work
//   - FailureTally: circuit-breaker counters at category and run level
//
// # Failure taxonomy
//
// Responses are classified before the caller sees them: 401/403/404 become
// ErrNotFound (terminal, never retried), 429 becomes RateLimitError
// (recovered inside the client with its own escalating backoff), 5xx and
// transport failures are retryable. Parse-level problems never surface
// here; extraction degrades to empty results instead.
package fetch
