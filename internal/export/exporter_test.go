package export

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	applog "github.com/clutchscan/clutchscan/internal/log"
	"github.com/clutchscan/clutchscan/internal/model"
)

func sampleRecords() []*model.ScrapedData {
	a := model.NewScrapedData("Web Developers", "https://clutch.co/profile/acme", "")
	a.Competitor = model.CompetitorInfo{
		Name:      "Acme Digital",
		Locations: []string{"Austin, TX"},
	}
	a.Reviewers = []model.ReviewerInfo{
		{
			Name:     "Jane Doe",
			JobTitle: "CTO",
			Company:  "Retail Co",
			Project: model.ProjectInfo{
				ServiceProvided: "Web Development",
				Score:           model.Float(5),
				ScoreQuality:    model.Float(4.5),
			},
		},
		{
			Name:    "Bob Roe",
			Company: "Finance Co",
			Project: model.ProjectInfo{Score: model.Float(4)},
		},
	}

	b := model.NewScrapedData("Mobile Apps", "", "")
	b.Competitor = model.CompetitorInfo{Name: "Beta Labs"}

	return []*model.ScrapedData{a, b}
}

func quietLogger() *slog.Logger {
	return applog.NewDiscard()
}

func TestManagerExportAll(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m, err := NewManager(dir,
		WithLogger(quietLogger()),
		WithFailures(map[string]int{"server_error": 4}),
	)
	if err != nil {
		t.Fatalf("NewManager() error: %v", err)
	}

	written, err := m.ExportAll(sampleRecords(), "run")
	if err != nil {
		t.Fatalf("ExportAll() error: %v", err)
	}

	if len(written) != len(Formats()) {
		t.Errorf("exported %d formats, want %d", len(written), len(Formats()))
	}
	for format, path := range written {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("format %s: missing file %s", format, path)
		}
	}

	summary, err := os.ReadFile(written[FormatSummary])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(summary), "server_error: 4") {
		t.Error("summary file missing the error tally")
	}
}

func TestManagerDefaultBaseName(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m, err := NewManager(dir,
		WithLogger(quietLogger()),
		WithFormats([]Format{FormatJSON}),
	)
	if err != nil {
		t.Fatal(err)
	}

	written, err := m.ExportAll(nil, "")
	if err != nil {
		t.Fatal(err)
	}

	name := filepath.Base(written[FormatJSON])
	if !strings.HasPrefix(name, "clutch_data_") || !strings.HasSuffix(name, ".json") {
		t.Errorf("default file name = %q, want clutch_data_<timestamp>.json", name)
	}
}

func TestJSONExporter(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.json")
	e := &JSONExporter{Indent: "  "}

	if err := e.Export(sampleRecords(), path); err != nil {
		t.Fatalf("Export() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var got []*model.ScrapedData
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("round-tripped %d records, want 2", len(got))
	}
	if got[0].Competitor.Name != "Acme Digital" {
		t.Errorf("Name = %q, want Acme Digital", got[0].Competitor.Name)
	}
	if len(got[0].Reviewers) != 2 {
		t.Errorf("nested reviewers lost: got %d, want 2", len(got[0].Reviewers))
	}

	t.Run("empty set writes an array", func(t *testing.T) {
		t.Parallel()

		empty := filepath.Join(t.TempDir(), "empty.json")
		if err := e.Export(nil, empty); err != nil {
			t.Fatal(err)
		}
		data, err := os.ReadFile(empty)
		if err != nil {
			t.Fatal(err)
		}
		if strings.TrimSpace(string(data)) != "[]" {
			t.Errorf("empty export = %q, want []", data)
		}
	})
}

func TestCSVExporter(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.csv")
	e := &CSVExporter{}

	if err := e.Export(sampleRecords(), path); err != nil {
		t.Fatalf("Export() error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	// Header plus two reviewer rows for Acme and one reviewerless row
	// for Beta Labs.
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}
	if len(rows[0]) != len(model.FlatColumns) {
		t.Errorf("header has %d columns, want %d", len(rows[0]), len(model.FlatColumns))
	}
	if rows[1][5] != "Acme Digital" || rows[1][7] != "Jane Doe" {
		t.Errorf("first data row = %v, want Acme Digital / Jane Doe", rows[1][:8])
	}
	if rows[3][5] != "Beta Labs" || rows[3][7] != "" {
		t.Errorf("reviewerless company row = %v", rows[3][:8])
	}
}

func TestSQLiteExporter(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.db")
	e := &SQLiteExporter{}

	if err := e.Export(sampleRecords(), path); err != nil {
		t.Fatalf("Export() error: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM scraped_data").Scan(&count); err != nil {
		t.Fatalf("count query: %v", err)
	}
	if count != 3 {
		t.Errorf("got %d rows, want 3", count)
	}

	var score float64
	err = db.QueryRow(
		"SELECT project_score FROM scraped_data WHERE reviewer_name = ?", "Jane Doe",
	).Scan(&score)
	if err != nil {
		t.Fatalf("score query: %v", err)
	}
	if score != 5 {
		t.Errorf("project_score = %v, want 5", score)
	}

	var nulls int
	err = db.QueryRow(
		"SELECT COUNT(*) FROM scraped_data WHERE project_score IS NULL",
	).Scan(&nulls)
	if err != nil {
		t.Fatal(err)
	}
	if nulls != 1 {
		t.Errorf("%d NULL scores, want 1 for the reviewerless row", nulls)
	}
}

func TestMarkdownExporter(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.md")
	e := &MarkdownExporter{}

	if err := e.Export(sampleRecords(), path); err != nil {
		t.Fatalf("Export() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	for _, want := range []string{
		"# Clutch Directory Crawl Report",
		"## Breakdown by Subcategory",
		"Web Developers",
		"Acme Digital",
		"## Data Quality",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestSummaryExporter(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out_summary.txt")
	e := &SummaryExporter{Failures: map[string]int{"not_found": 2, "network": 1}}

	if err := e.Export(sampleRecords(), path); err != nil {
		t.Fatalf("Export() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	for _, want := range []string{
		"Total Records: 2",
		"Web Developers: 1 records",
		"Mobile Apps: 1 records",
		"UNIQUE COMPANIES: 2",
		"UNIQUE REVIEWERS: 2",
		"ERRORS ENCOUNTERED:",
		"network: 1",
		"not_found: 2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q", want)
		}
	}

	t.Run("no failures reports none", func(t *testing.T) {
		t.Parallel()

		var b strings.Builder
		if err := WriteSummary(&b, sampleRecords(), nil); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(b.String(), "ERRORS ENCOUNTERED:\n--------------------\nnone\n") {
			t.Errorf("summary missing empty error tally:\n%s", b.String())
		}
	})

	t.Run("empty set still reports errors", func(t *testing.T) {
		t.Parallel()

		var b strings.Builder
		if err := WriteSummary(&b, nil, map[string]int{"rate_limited": 3}); err != nil {
			t.Fatal(err)
		}
		out := b.String()
		if !strings.Contains(out, "No data to summarize.") {
			t.Errorf("empty summary = %q", out)
		}
		if !strings.Contains(out, "rate_limited: 3") {
			t.Errorf("empty summary missing error tally:\n%s", out)
		}
	})
}
