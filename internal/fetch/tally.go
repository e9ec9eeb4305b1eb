package fetch

import (
	"maps"
	"sync"
)

// FailureTally tracks failures at category and run scope and implements
// the circuit-breaker policy: a category is abandoned after too many
// consecutive failed units, the run after too many failures in total.
// Consecutive streaks are tracked per category key so concurrent
// categories cannot reset each other's breaker; the total count and the
// per-type summary are shared across the run. Lifecycle is one tally per
// run, threaded through the crawl rather than held in package state;
// Reset exists for explicit reuse.
type FailureTally struct {
	mu sync.Mutex

	// counts tallies failures by classified name for the run summary.
	counts map[string]int

	// consecutive holds the current failure streak per category key.
	consecutive map[string]int
	total       int

	maxConsecutive int
	maxTotal       int
}

// NewFailureTally creates a tally with the given circuit-breaker
// thresholds. Zero or negative thresholds disable the corresponding
// breaker.
func NewFailureTally(maxConsecutive, maxTotal int) *FailureTally {
	return &FailureTally{
		counts:         make(map[string]int),
		consecutive:    make(map[string]int),
		maxConsecutive: maxConsecutive,
		maxTotal:       maxTotal,
	}
}

// RecordFailure counts one failed unit of work in category key.
func (t *FailureTally) RecordFailure(key string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.counts[Classify(err)]++
	t.consecutive[key]++
	t.total++
}

// RecordSuccess resets the consecutive-failure streak of category key.
func (t *FailureTally) RecordSuccess(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.consecutive, key)
}

// CategoryExhausted reports whether the consecutive-failure breaker has
// tripped for category key. The caller abandons that category; other
// categories keep their own streaks.
func (t *FailureTally) CategoryExhausted(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.maxConsecutive > 0 && t.consecutive[key] >= t.maxConsecutive
}

// RunExhausted reports whether the run-level breaker has tripped.
func (t *FailureTally) RunExhausted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.maxTotal > 0 && t.total >= t.maxTotal
}

// ResetConsecutive clears the streak of category key at a category
// boundary.
func (t *FailureTally) ResetConsecutive(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.consecutive, key)
}

// Reset clears all counters.
func (t *FailureTally) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts = make(map[string]int)
	t.consecutive = make(map[string]int)
	t.total = 0
}

// Summary returns a copy of the per-type failure counts.
func (t *FailureTally) Summary() map[string]int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return maps.Clone(t.counts)
}
