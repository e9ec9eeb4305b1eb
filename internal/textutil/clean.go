package textutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Compiled once at package init. These patterns mirror the markup actually
// observed on directory pages, not any formal grammar.
var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	numberRegex     = regexp.MustCompile(`(\d+\.?\d*)`)

	// Employee counts appear as ranges ("50-100 employees") or open-ended
	// buckets ("200+ employees"). "people" is an occasional synonym.
	employeeRangeRegex = regexp.MustCompile(`(\d+)\s*-\s*(\d+)\s*(?:employees?|people)`)
	employeeOpenRegex  = regexp.MustCompile(`(\d+)\+?\s*(?:employees?|people)`)

	// Engagement periods use several dash variants between two Month Year
	// values. A single Month Year is treated as a start with no end.
	dateRangeRegex  = regexp.MustCompile(`([A-Za-z]+ \d{4})\s*[-–—]\s*([A-Za-z]+ \d{4})`)
	singleDateRegex = regexp.MustCompile(`([A-Za-z]+ \d{4})`)

	// Budgets look like "$50,000" or "$50,000 - $100,000".
	moneyRegex = regexp.MustCompile(`\$[\d,]+(?:\s*-\s*\$[\d,]+)?`)
)

// CleanText collapses runs of whitespace to single spaces and trims the
// result. Input that is empty or whitespace-only yields "".
//
// CleanText is idempotent: CleanText(CleanText(s)) == CleanText(s).
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// ExtractNumber finds the first decimal number substring in s and returns
// it as a float. The second return value reports whether a number was found.
func ExtractNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}

	match := numberRegex.FindString(s)
	if match == "" {
		return 0, false
	}

	n, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseEmployeeCount normalizes a free-text employee count to the canonical
// "N-M employees" or "N+ employees" form. Recognition is case-insensitive
// and accepts "people" as a synonym for "employees". If no pattern matches,
// the cleaned raw text is returned unchanged.
func ParseEmployeeCount(s string) string {
	if s == "" {
		return ""
	}

	lower := strings.ToLower(strings.TrimSpace(s))

	if m := employeeRangeRegex.FindStringSubmatch(lower); m != nil {
		return fmt.Sprintf("%s-%s employees", m[1], m[2])
	}
	if m := employeeOpenRegex.FindStringSubmatch(lower); m != nil {
		return fmt.Sprintf("%s+ employees", m[1])
	}

	return CleanText(s)
}

// ParseDateRange extracts a "<Month Year> - <Month Year>" period from s,
// accepting hyphen, en-dash, and em-dash separators. A lone "<Month Year>"
// becomes the start date with an empty end date. When nothing matches,
// both values are empty.
func ParseDateRange(s string) (start, end string) {
	if s == "" {
		return "", ""
	}

	if m := dateRangeRegex.FindStringSubmatch(s); m != nil {
		return m[1], m[2]
	}
	if m := singleDateRegex.FindStringSubmatch(s); m != nil {
		return m[1], ""
	}
	return "", ""
}

// ParseProjectSize extracts a dollar amount or dollar range ("$50,000" or
// "$50,000 - $100,000") from s. If no money pattern is present, the cleaned
// raw text is returned as a fallback.
func ParseProjectSize(s string) string {
	if s == "" {
		return ""
	}

	if match := moneyRegex.FindString(s); match != "" {
		return match
	}
	return CleanText(s)
}
