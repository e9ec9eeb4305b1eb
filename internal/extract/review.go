package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/clutchscan/clutchscan/internal/model"
	"github.com/clutchscan/clutchscan/internal/textutil"
)

// maxServiceTags caps how many service tags one review contributes.
const maxServiceTags = 3

var (
	// datePeriodRegex matches "Mon. 2023 - Mon. 2024" and open-ended
	// "Mon. 2023 - Ongoing" periods; shortPeriodRegex catches periods
	// whose start month omits the year.
	datePeriodRegex  = regexp.MustCompile(`([A-Za-z]{3,9}\.?\s+\d{4})\s*[-–]\s*([A-Za-z]{3,9}\.?\s+\d{4}|Ongoing)`)
	shortPeriodRegex = regexp.MustCompile(`([A-Za-z]{3,9})\s*[-–]\s*([A-Za-z]{3,9}\.?\s+\d{4})`)

	// budgetRegex matches "$10,000" and "$10,000 to $49,999" budget lines.
	budgetRegex = regexp.MustCompile(`\$([0-9,]+(?:\s*to\s*\$[0-9,]+)?)`)

	// scoreRegexes locate the overall rating in free text, tried in order.
	scoreRegexes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+\.?\d*)\s*(?:Quality|Overall|Rating)`),
		regexp.MustCompile(`(?i)(\d+\.?\d*)/5`),
		regexp.MustCompile(`(?i)(\d+\.?\d*)\s*stars?`),
	}

	// yearTokenRegex marks service-list items that are really project
	// dates.
	yearTokenRegex = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

	// companySizeRegex matches "10-49 employees" style items in the
	// reviewer detail list.
	companySizeRegex = regexp.MustCompile(`(?i)\d+(?:-\d+)?\s*employees?`)

	// reviewerLocationRegexes accept "City, State" and bare place names.
	reviewerLocationRegexes = []*regexp.Regexp{
		regexp.MustCompile(`^[A-Za-z\s]+,\s+[A-Za-z\s]+$`),
		regexp.MustCompile(`^[A-Za-z\s]+$`),
	}

	// fullNameRegex and singleNameRegex recover a reviewer name from
	// unstructured text when no name element exists.
	fullNameRegex   = regexp.MustCompile(`[A-Z][a-z]+\s+[A-Z][a-z]+`)
	singleNameRegex = regexp.MustCompile(`[A-Z][a-z]+`)
)

// reviewerBoilerplate are detail-list items that describe the review
// process, not the reviewer.
var reviewerBoilerplate = map[string]bool{
	"Verified":        true,
	"Online Review":   true,
	"Phone Interview": true,
}

// industryKeywords classify a reviewer detail item as an industry label.
var industryKeywords = []string{
	"Industry", "Technology", "Consulting", "Automotive", "Healthcare",
	"Finance", "Marketing", "Non-profit", "Nonprofit", "Education",
	"Retail", "Manufacturing", "Information technology", "Consumer Products",
	"Social Networking", "Other Industry",
}

// Reviews extracts up to max reviews from a profile's review section.
// The section renders each review as four sibling blocks (data, content,
// reviewer, rating metrics); reviews are paired positionally across the
// first three, with rating metrics joined when present. Reviews with no
// usable content are dropped. A max of zero or less means no cap.
func Reviews(doc *goquery.Document, max int) []model.ReviewerInfo {
	data := doc.Find(".profile-review__data")
	content := doc.Find(".profile-review__content")
	reviewer := doc.Find(".profile-review__reviewer")
	metrics := doc.Find(".profile-review__rating-metrics")

	n := min(data.Length(), content.Length(), reviewer.Length())
	if max > 0 && n > max {
		n = max
	}

	var reviewers []model.ReviewerInfo
	for i := 0; i < n; i++ {
		var metricsSel *goquery.Selection
		if i < metrics.Length() {
			metricsSel = metrics.Eq(i)
		}

		r := extractReview(data.Eq(i), content.Eq(i), reviewer.Eq(i), metricsSel)
		if r.HasContent() {
			reviewers = append(reviewers, r)
		}
	}

	return reviewers
}

// extractReview assembles one reviewer from its four blocks.
func extractReview(data, content, reviewer, metrics *goquery.Selection) model.ReviewerInfo {
	var r model.ReviewerInfo

	parseReviewData(data, &r.Project)
	parseReviewScore(content, &r.Project)
	if metrics != nil {
		parseRatingMetrics(metrics, &r.Project)
	}
	parseReviewer(reviewer, &r)

	return r
}

// parseReviewData reads the project facts block: service tags, the
// engagement period, and the budget line.
func parseReviewData(sel *goquery.Selection, project *model.ProjectInfo) {
	var services []string
	sel.Find("li").Each(func(_ int, li *goquery.Selection) {
		text := textutil.CleanText(li.Text())
		if text == "" || isProjectFact(text) {
			return
		}
		services = append(services, text)
	})
	if len(services) > maxServiceTags {
		services = services[:maxServiceTags]
	}
	if len(services) > 0 {
		project.ServiceProvided = strings.Join(services, ", ")
	}

	text := textutil.CleanText(sel.Text())

	if m := datePeriodRegex.FindStringSubmatch(text); m != nil {
		project.StartDate = strings.TrimSpace(m[1])
		project.EndDate = strings.TrimSpace(m[2])
	} else if m := shortPeriodRegex.FindStringSubmatch(text); m != nil {
		project.StartDate = strings.TrimSpace(m[1])
		project.EndDate = strings.TrimSpace(m[2])
	}

	if m := budgetRegex.FindStringSubmatch(text); m != nil {
		project.ProjectSize = "$" + m[1]
	}
}

// isProjectFact reports whether a service-list item is really a budget,
// status, or date line that belongs to other fields.
func isProjectFact(s string) bool {
	lower := strings.ToLower(s)
	return strings.Contains(lower, "confidential") ||
		strings.Contains(lower, "ongoing") ||
		yearTokenRegex.MatchString(s)
}

// parseReviewScore finds the overall score in the review body text.
func parseReviewScore(sel *goquery.Selection, project *model.ProjectInfo) {
	text := textutil.CleanText(sel.Text())
	for _, re := range scoreRegexes {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			project.Score = model.Float(v)
			return
		}
	}
}

// parseRatingMetrics reads the dt/dd definition lists of the rating
// breakdown block into the dimension sub-scores.
func parseRatingMetrics(sel *goquery.Selection, project *model.ProjectInfo) {
	sel.Find("dl").Each(func(_ int, dl *goquery.Selection) {
		name := strings.ToLower(textutil.CleanText(dl.Find("dt").First().Text()))
		value := textutil.CleanText(dl.Find("dd").First().Text())
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return
		}

		switch {
		case strings.Contains(name, "quality"):
			project.ScoreQuality = model.Float(v)
		case strings.Contains(name, "schedule"):
			project.ScoreSchedule = model.Float(v)
		case strings.Contains(name, "cost"):
			project.ScoreCost = model.Float(v)
		case strings.Contains(name, "refer"):
			project.ScoreWillingToRefer = model.Float(v)
		}
	})
}

// parseReviewer reads the reviewer identity block: title and company from
// the position line, the display name, and the classified detail list.
func parseReviewer(sel *goquery.Selection, r *model.ReviewerInfo) {
	if position := textutil.CleanText(sel.Find(".reviewer_position").First().Text()); position != "" {
		if before, after, found := strings.Cut(position, ","); found {
			r.JobTitle = strings.TrimSpace(before)
			r.Company = strings.TrimSpace(after)
		} else {
			r.JobTitle = position
		}
	}

	nameFound := false
	if nameElem := sel.Find(".reviewer_card--name").First(); nameElem.Length() > 0 {
		nameFound = true
		if name := textutil.CleanText(nameElem.Text()); name != "" && name != "Anonymous" {
			r.Name = name
		}
	}

	sel.Find("ul").First().Find("li").Each(func(_ int, li *goquery.Selection) {
		classifyReviewerDetail(textutil.CleanText(li.Text()), r)
	})

	// Anonymous reviews keep an empty name. Only when the block had no
	// name element at all is the name recovered from free text.
	if r.Name == "" && !nameFound {
		r.Name = guessReviewerName(textutil.CleanText(sel.Text()), r.Company)
	}
}

// classifyReviewerDetail routes one detail-list item to company size,
// industry, or location. Process boilerplate is dropped.
func classifyReviewerDetail(text string, r *model.ReviewerInfo) {
	if text == "" || reviewerBoilerplate[text] {
		return
	}

	if companySizeRegex.MatchString(text) {
		r.CompanySize = text
		return
	}

	lower := strings.ToLower(text)
	for _, keyword := range industryKeywords {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			r.Industry = text
			return
		}
	}

	if len(text) < 50 {
		for _, re := range reviewerLocationRegexes {
			if re.MatchString(text) {
				r.Location = text
				return
			}
		}
	}
}

// guessReviewerName pulls a "First Last" pair, or failing that a single
// capitalized word, out of the reviewer block text. Words that belong to
// the review process or the reviewer's company are not names.
func guessReviewerName(text, company string) string {
	skip := map[string]bool{
		"Anonymous": true, "Verified": true, "Online": true,
		"Review": true, "Phone": true, "Interview": true,
	}
	for _, word := range strings.Fields(company) {
		skip[word] = true
	}

	for _, re := range []*regexp.Regexp{fullNameRegex, singleNameRegex} {
		for _, match := range re.FindAllString(text, -1) {
			if !skip[match] {
				return match
			}
		}
	}
	return ""
}
