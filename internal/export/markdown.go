package export

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/nao1215/markdown"

	"github.com/clutchscan/clutchscan/internal/model"
)

// maxSampleRecords caps the sample section of the Markdown report.
const maxSampleRecords = 5

// MarkdownExporter writes a human-readable crawl report. This format is
// for sharing and documentation; the data formats are JSON, CSV, and
// SQLite.
type MarkdownExporter struct{}

// Filename implements Exporter.
func (e *MarkdownExporter) Filename(base string) string {
	return base + ".md"
}

// Export implements Exporter.
func (e *MarkdownExporter) Export(records []*model.ScrapedData, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	stats := model.NewStats(records)
	md := markdown.NewMarkdown(f)

	writeMarkdownHeader(md, stats)
	writeMarkdownBreakdown(md, stats)
	writeMarkdownSamples(md, records)
	writeMarkdownQuality(md, stats)

	if err := md.Build(); err != nil {
		return fmt.Errorf("build markdown %s: %w", path, err)
	}
	return f.Close()
}

// writeMarkdownHeader writes the title and the run facts table.
func writeMarkdownHeader(md *markdown.Markdown, stats *model.Stats) {
	md.H1("Clutch Directory Crawl Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Generated", time.Now().Format("2006-01-02 15:04:05 MST")},
			{"Total Records", strconv.Itoa(stats.TotalRecords)},
			{"Unique Companies", strconv.Itoa(stats.UniqueCompanies)},
			{"Unique Reviewers", strconv.Itoa(stats.UniqueReviewers)},
		},
	})
	md.PlainText("")
}

// writeMarkdownBreakdown writes the per-subcategory record counts.
func writeMarkdownBreakdown(md *markdown.Markdown, stats *model.Stats) {
	md.H2("Breakdown by Subcategory")
	md.PlainText("")

	rows := make([][]string, 0, len(stats.BySubcategory))
	for _, name := range stats.Subcategories() {
		rows = append(rows, []string{name, strconv.Itoa(stats.BySubcategory[name])})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Subcategory", "Records"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeMarkdownSamples writes the first few records as a quick look at
// the data set.
func writeMarkdownSamples(md *markdown.Markdown, records []*model.ScrapedData) {
	md.H2("Sample Records")
	md.PlainText("")

	if len(records) == 0 {
		md.PlainText("No records collected.")
		md.PlainText("")
		return
	}

	n := min(len(records), maxSampleRecords)
	rows := make([][]string, 0, n)
	for _, record := range records[:n] {
		rows = append(rows, []string{
			record.Competitor.Name,
			record.Subcategory,
			strconv.Itoa(len(record.Reviewers)),
			formatAverageScore(record),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Company", "Subcategory", "Reviews", "Avg Score"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeMarkdownQuality writes the field population tallies.
func writeMarkdownQuality(md *markdown.Markdown, stats *model.Stats) {
	md.H2("Data Quality")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Company names populated", strconv.Itoa(stats.CompanyNamesPopulated)},
			{"Reviewer names populated", strconv.Itoa(stats.ReviewerNamesPopulated)},
			{"Project scores populated", strconv.Itoa(stats.ProjectScoresPopulated)},
		},
	})
}

// formatAverageScore averages the overall scores of a record's reviews.
func formatAverageScore(record *model.ScrapedData) string {
	var sum float64
	var n int
	for _, r := range record.Reviewers {
		if r.Project.Score != nil {
			sum += *r.Project.Score
			n++
		}
	}
	if n == 0 {
		return "N/A"
	}
	return strconv.FormatFloat(sum/float64(n), 'f', 1, 64)
}
