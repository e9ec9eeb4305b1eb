package model

import (
	"strconv"
	"time"
)

// DefaultCategory is the directory category this scraper covers.
// All records produced by the crawler carry it.
const DefaultCategory = "Development"

// ReviewSuffix is the URL fragment appended to a company profile URL to
// reach its reviews section.
const ReviewSuffix = "#reviews"

// ProjectInfo describes one reviewed engagement. All fields are optional;
// budget and period are kept as free text because the site does not present
// them in a machine-parseable form.
type ProjectInfo struct {
	// ServiceProvided is a short description of the delivered services,
	// typically the first few service tags joined with commas.
	ServiceProvided string `json:"service_provided,omitempty"`

	// ProjectSize is the budget range as free text, e.g. "$50,000 - $100,000".
	ProjectSize string `json:"project_size,omitempty"`

	// StartDate and EndDate are free-text period bounds, e.g. "Jan 2023".
	// EndDate may also be "Ongoing".
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`

	// Score is the overall rating. Sub-scores break the rating down by
	// dimension. Each is nil when the page did not expose it; present
	// values are in the range [0, 5].
	Score               *float64 `json:"score,omitempty"`
	ScoreQuality        *float64 `json:"score_quality,omitempty"`
	ScoreSchedule       *float64 `json:"score_schedule,omitempty"`
	ScoreCost           *float64 `json:"score_cost,omitempty"`
	ScoreWillingToRefer *float64 `json:"score_willing_to_refer,omitempty"`
}

// ReviewerInfo identifies one reviewer and the context they reviewed from.
// A reviewer owns exactly one ProjectInfo, which may be entirely empty.
type ReviewerInfo struct {
	Name        string `json:"name,omitempty"`
	JobTitle    string `json:"job_title,omitempty"`
	Company     string `json:"company,omitempty"`
	Industry    string `json:"industry,omitempty"`
	Location    string `json:"location,omitempty"`
	CompanySize string `json:"company_size,omitempty"`

	Project ProjectInfo `json:"project"`
}

// HasContent reports whether the reviewer record carries any usable data.
// Fully empty reviewers are dropped during extraction rather than retained.
func (r *ReviewerInfo) HasContent() bool {
	return r.Name != "" ||
		r.Company != "" ||
		r.Project.ServiceProvided != "" ||
		r.Project.Score != nil
}

// Signature returns the identity triple used to detect the same reviewer
// collected through different fetch paths.
func (r *ReviewerInfo) Signature() [3]string {
	return [3]string{r.Name, r.Company, r.JobTitle}
}

// CompetitorInfo is the vendor company being cataloged. Locations keep
// insertion order and may contain duplicates contributed by separate
// extraction passes; deduplication happens at merge time, not here.
type CompetitorInfo struct {
	Name      string   `json:"name,omitempty"`
	Locations []string `json:"locations,omitempty"`
}

// ScrapedData is one crawl result: a single company in a single subcategory
// together with the reviews collected for it.
type ScrapedData struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory,omitempty"`

	Competitor CompetitorInfo `json:"competitor"`

	// Reviewers is ordered by discovery; it is never sorted.
	Reviewers []ReviewerInfo `json:"reviewers"`

	// ScrapedAt is the record creation time in RFC 3339 form.
	ScrapedAt string `json:"scraped_at"`

	SourceURL string `json:"source_url,omitempty"`

	// SourceURLReview is derived exactly once at construction: when
	// SourceURL is set and no explicit review URL is given, it is
	// SourceURL + ReviewSuffix.
	SourceURLReview string `json:"source_url_review,omitempty"`
}

// NewScrapedData constructs a record with category metadata and the derived
// review URL filled in.
func NewScrapedData(subcategory, sourceURL, sourceURLReview string) *ScrapedData {
	d := &ScrapedData{
		Category:        DefaultCategory,
		Subcategory:     subcategory,
		Reviewers:       make([]ReviewerInfo, 0),
		ScrapedAt:       time.Now().Format(time.RFC3339),
		SourceURL:       sourceURL,
		SourceURLReview: sourceURLReview,
	}
	if d.SourceURL != "" && d.SourceURLReview == "" {
		d.SourceURLReview = d.SourceURL + ReviewSuffix
	}
	return d
}

// FlatRow is one exported row: the record's shared fields plus one
// reviewer's fields. Score columns stay typed so relational exports can
// store them as numbers rather than text.
type FlatRow struct {
	Category            string
	Subcategory         string
	ScrapedAt           string
	SourceURL           string
	SourceURLReview     string
	CompetitorName      string
	CompetitorLocations string
	ReviewerName        string
	ReviewerJobTitle    string
	ReviewerCompany     string
	ReviewerIndustry    string
	ReviewerLocation    string
	ReviewerCompanySize string
	ServiceProvided     string
	ProjectSize         string
	ProjectStartDate    string
	ProjectEndDate      string
	Score               *float64
	ScoreQuality        *float64
	ScoreSchedule       *float64
	ScoreCost           *float64
	ScoreWillingToRefer *float64
}

// FlatColumns is the fixed column order shared by all flat exports.
var FlatColumns = []string{
	"category",
	"subcategory",
	"scraped_at",
	"source_url",
	"source_url_review",
	"competitor_name",
	"competitor_locations",
	"reviewer_name",
	"reviewer_job_title",
	"reviewer_company",
	"reviewer_industry",
	"reviewer_location",
	"reviewer_company_size",
	"service_provided",
	"project_size",
	"project_start_date",
	"project_end_date",
	"project_score",
	"project_score_quality",
	"project_score_schedule",
	"project_score_cost",
	"project_score_willing_to_refer",
}

// FlatRows flattens the record to one row per reviewer. A record with no
// reviewers still yields exactly one row, with all reviewer and project
// fields empty, so the company itself is never lost in flat exports.
func (d *ScrapedData) FlatRows() []FlatRow {
	base := FlatRow{
		Category:            d.Category,
		Subcategory:         d.Subcategory,
		ScrapedAt:           d.ScrapedAt,
		SourceURL:           d.SourceURL,
		SourceURLReview:     d.SourceURLReview,
		CompetitorName:      d.Competitor.Name,
		CompetitorLocations: joinLocations(d.Competitor.Locations),
	}

	if len(d.Reviewers) == 0 {
		return []FlatRow{base}
	}

	rows := make([]FlatRow, 0, len(d.Reviewers))
	for _, r := range d.Reviewers {
		row := base
		row.ReviewerName = r.Name
		row.ReviewerJobTitle = r.JobTitle
		row.ReviewerCompany = r.Company
		row.ReviewerIndustry = r.Industry
		row.ReviewerLocation = r.Location
		row.ReviewerCompanySize = r.CompanySize
		row.ServiceProvided = r.Project.ServiceProvided
		row.ProjectSize = r.Project.ProjectSize
		row.ProjectStartDate = r.Project.StartDate
		row.ProjectEndDate = r.Project.EndDate
		row.Score = r.Project.Score
		row.ScoreQuality = r.Project.ScoreQuality
		row.ScoreSchedule = r.Project.ScoreSchedule
		row.ScoreCost = r.Project.ScoreCost
		row.ScoreWillingToRefer = r.Project.ScoreWillingToRefer
		rows = append(rows, row)
	}
	return rows
}

// Strings renders the row in FlatColumns order for text-based exports.
// Absent scores render as empty strings.
func (f *FlatRow) Strings() []string {
	return []string{
		f.Category,
		f.Subcategory,
		f.ScrapedAt,
		f.SourceURL,
		f.SourceURLReview,
		f.CompetitorName,
		f.CompetitorLocations,
		f.ReviewerName,
		f.ReviewerJobTitle,
		f.ReviewerCompany,
		f.ReviewerIndustry,
		f.ReviewerLocation,
		f.ReviewerCompanySize,
		f.ServiceProvided,
		f.ProjectSize,
		f.ProjectStartDate,
		f.ProjectEndDate,
		formatScore(f.Score),
		formatScore(f.ScoreQuality),
		formatScore(f.ScoreSchedule),
		formatScore(f.ScoreCost),
		formatScore(f.ScoreWillingToRefer),
	}
}

func joinLocations(locations []string) string {
	out := ""
	for i, loc := range locations {
		if i > 0 {
			out += ", "
		}
		out += loc
	}
	return out
}

func formatScore(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// Float returns a pointer to v. It keeps optional score construction terse
// in extractors and tests.
func Float(v float64) *float64 {
	return &v
}
