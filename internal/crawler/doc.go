// Package crawler walks directory categories and assembles company
// records. It owns the per-category page loop, the detail and review
// fetches behind each listing, failure accounting against the circuit
// breakers, and the final deduplication of companies collected through
// more than one category.
package crawler
