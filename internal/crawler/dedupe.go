package crawler

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/clutchscan/clutchscan/internal/model"
)

// nameFolder lowercases company names without tying the comparison to
// any particular locale.
var nameFolder = cases.Lower(language.Und)

// Dedupe collapses records that describe the same company collected
// through different categories or pages. Identity is the company name,
// case-insensitively. For each duplicate group the record with the most
// reviewers survives and absorbs every reviewer the other records carry,
// keeping the first occurrence of each reviewer identity. Records with
// no company name cannot be matched and pass through unchanged. Output
// order follows first appearance. Dedupe is idempotent.
func Dedupe(records []*model.ScrapedData) []*model.ScrapedData {
	if len(records) == 0 {
		return records
	}

	groups := make(map[string][]*model.ScrapedData)
	result := make([]*model.ScrapedData, 0, len(records))
	names := make([]string, 0, len(records))

	// First pass lays out the output: nameless records keep their spot,
	// each named company reserves one slot at its first appearance.
	for _, record := range records {
		name := strings.TrimSpace(nameFolder.String(record.Competitor.Name))
		if name == "" {
			result = append(result, record)
			names = append(names, "")
			continue
		}
		if _, ok := groups[name]; !ok {
			result = append(result, nil)
			names = append(names, name)
		}
		groups[name] = append(groups[name], record)
	}

	for i, record := range result {
		if record == nil {
			result[i] = mergeGroup(groups[names[i]])
		}
	}

	return result
}

// mergeGroup merges one duplicate group. The member with the most
// reviewers is the survivor; ties keep the earliest member.
func mergeGroup(members []*model.ScrapedData) *model.ScrapedData {
	if len(members) == 1 {
		return members[0]
	}

	best := members[0]
	for _, m := range members[1:] {
		if len(m.Reviewers) > len(best.Reviewers) {
			best = m
		}
	}

	var all []model.ReviewerInfo
	seen := make(map[[3]string]bool)
	for _, m := range members {
		for _, r := range m.Reviewers {
			sig := r.Signature()
			if seen[sig] {
				continue
			}
			seen[sig] = true
			all = append(all, r)
		}
	}

	best.Reviewers = all
	return best
}
