package export

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/clutchscan/clutchscan/internal/model"
)

// SummaryExporter writes a plain-text run summary: the same numbers the
// console prints at the end of a run, in a file that survives the
// terminal session. Failures, when set, adds the run's error tally to
// the report.
type SummaryExporter struct {
	Failures map[string]int
}

// Filename implements Exporter.
func (e *SummaryExporter) Filename(base string) string {
	return base + "_summary.txt"
}

// Export implements Exporter.
func (e *SummaryExporter) Export(records []*model.ScrapedData, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteSummary(f, records, e.Failures); err != nil {
		return fmt.Errorf("write summary %s: %w", path, err)
	}
	return f.Close()
}

// WriteSummary renders the text summary of a record set to w. The CLI
// reuses it for the end-of-run console output. failures is the run's
// error tally by type; the report carries an errors section even when it
// is empty, and even when no records were collected at all.
func WriteSummary(w io.Writer, records []*model.ScrapedData, failures map[string]int) error {
	stats := model.NewStats(records)
	var b strings.Builder

	b.WriteString("CLUTCH.CO SCRAPING SUMMARY REPORT\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")
	fmt.Fprintf(&b, "Generated: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Total Records: %d\n\n", stats.TotalRecords)

	if stats.TotalRecords == 0 {
		b.WriteString("No data to summarize.\n\n")
		writeFailures(&b, failures)
		_, err := w.Write([]byte(b.String()))
		return err
	}

	b.WriteString("BREAKDOWN BY SUBCATEGORY:\n")
	b.WriteString(strings.Repeat("-", 30) + "\n")
	for _, name := range stats.Subcategories() {
		fmt.Fprintf(&b, "%s: %d records\n", name, stats.BySubcategory[name])
	}

	fmt.Fprintf(&b, "\nUNIQUE COMPANIES: %d\n", stats.UniqueCompanies)
	fmt.Fprintf(&b, "UNIQUE REVIEWERS: %d\n\n", stats.UniqueReviewers)

	b.WriteString("DATA QUALITY METRICS:\n")
	b.WriteString(strings.Repeat("-", 25) + "\n")
	fmt.Fprintf(&b, "Company names populated: %d/%d (%.1f%%)\n",
		stats.CompanyNamesPopulated, stats.TotalRecords,
		percent(stats.CompanyNamesPopulated, stats.TotalRecords))
	fmt.Fprintf(&b, "Reviewer names populated: %d\n", stats.ReviewerNamesPopulated)
	fmt.Fprintf(&b, "Project scores populated: %d\n\n", stats.ProjectScoresPopulated)

	writeFailures(&b, failures)

	_, err := w.Write([]byte(b.String()))
	return err
}

// writeFailures renders the error tally sorted by type name.
func writeFailures(b *strings.Builder, failures map[string]int) {
	b.WriteString("ERRORS ENCOUNTERED:\n")
	b.WriteString(strings.Repeat("-", 20) + "\n")
	if len(failures) == 0 {
		b.WriteString("none\n")
		return
	}
	for _, name := range slices.Sorted(maps.Keys(failures)) {
		fmt.Fprintf(b, "%s: %d\n", name, failures[name])
	}
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
