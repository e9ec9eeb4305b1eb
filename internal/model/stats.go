package model

import "sort"

// Stats summarizes a record set for the run-end console summary and the
// text report export.
type Stats struct {
	// TotalRecords is the number of ScrapedData records.
	TotalRecords int

	// BySubcategory counts records per subcategory. Records without a
	// subcategory are tallied under "Unknown".
	BySubcategory map[string]int

	// UniqueCompanies is the number of distinct competitor names.
	UniqueCompanies int

	// UniqueReviewers is the number of distinct reviewer names.
	UniqueReviewers int

	// Field population tallies used as crude data-quality metrics.
	CompanyNamesPopulated  int
	ReviewerNamesPopulated int
	ProjectScoresPopulated int
}

// NewStats computes summary statistics over a record set.
func NewStats(records []*ScrapedData) *Stats {
	s := &Stats{
		TotalRecords:  len(records),
		BySubcategory: make(map[string]int),
	}

	companies := make(map[string]struct{})
	reviewers := make(map[string]struct{})

	for _, rec := range records {
		subcat := rec.Subcategory
		if subcat == "" {
			subcat = "Unknown"
		}
		s.BySubcategory[subcat]++

		if rec.Competitor.Name != "" {
			s.CompanyNamesPopulated++
			companies[rec.Competitor.Name] = struct{}{}
		}

		for _, r := range rec.Reviewers {
			if r.Name != "" {
				s.ReviewerNamesPopulated++
				reviewers[r.Name] = struct{}{}
			}
			if r.Project.Score != nil {
				s.ProjectScoresPopulated++
			}
		}
	}

	s.UniqueCompanies = len(companies)
	s.UniqueReviewers = len(reviewers)
	return s
}

// Subcategories returns the tallied subcategory names in sorted order for
// deterministic report output.
func (s *Stats) Subcategories() []string {
	names := make([]string, 0, len(s.BySubcategory))
	for name := range s.BySubcategory {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
