// Package textutil provides pure text normalization helpers for scraped
// field values.
//
// Directory pages carry facts as free text: employee counts, money ranges,
// engagement dates, and numeric scores all arrive embedded in prose with
// inconsistent whitespace. The functions in this package pull structured
// values out of that text under a single rule: malformed input never fails,
// it degrades to an absent value or a cleaned fallback.
//
// Every function is pure and safe for concurrent use.
package textutil
