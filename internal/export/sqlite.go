package export

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/clutchscan/clutchscan/internal/model"
)

// SQLiteExporter writes the flattened row view into a single-table
// SQLite database. Score columns are REAL and NULL when absent, so
// consumers can aggregate without string parsing. The file is recreated
// on every export; it is a snapshot, not a store.
type SQLiteExporter struct{}

// scoreColumns are the FlatColumns stored as REAL rather than TEXT.
var scoreColumns = map[string]bool{
	"project_score":                  true,
	"project_score_quality":          true,
	"project_score_schedule":         true,
	"project_score_cost":             true,
	"project_score_willing_to_refer": true,
}

// Filename implements Exporter.
func (e *SQLiteExporter) Filename(base string) string {
	return base + ".db"
}

// Export implements Exporter.
func (e *SQLiteExporter) Export(records []*model.ScrapedData, path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stale database %s: %w", path, err)
	}

	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return fmt.Errorf("open database %s: %w", path, err)
	}
	defer db.Close()

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createTableSQL()); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(insertSQL())
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		for _, row := range record.FlatRows() {
			if _, err := stmt.Exec(rowValues(&row)...); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("insert row for %s: %w", row.CompetitorName, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return db.Close()
}

// createTableSQL builds the scraped_data schema from FlatColumns so the
// three flat exports can never disagree on the column set.
func createTableSQL() string {
	cols := make([]string, 0, len(model.FlatColumns))
	for _, name := range model.FlatColumns {
		typ := "TEXT"
		if scoreColumns[name] {
			typ = "REAL"
		}
		cols = append(cols, name+" "+typ)
	}
	return "CREATE TABLE IF NOT EXISTS scraped_data (" + strings.Join(cols, ", ") + ")"
}

// insertSQL builds the insert statement matching createTableSQL.
func insertSQL() string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(model.FlatColumns)), ", ")
	return "INSERT INTO scraped_data (" + strings.Join(model.FlatColumns, ", ") + ") VALUES (" + placeholders + ")"
}

// rowValues renders one flat row as driver values in FlatColumns order.
// Nil scores become SQL NULL.
func rowValues(f *model.FlatRow) []any {
	return []any{
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
		scoreValue(f.Score),
		scoreValue(f.ScoreQuality),
		scoreValue(f.ScoreSchedule),
		scoreValue(f.ScoreCost),
		scoreValue(f.ScoreWillingToRefer),
	}
}

func scoreValue(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
