package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/clutchscan/clutchscan/internal/model"
)

// CSVExporter writes the flattened row view: one row per reviewer, one
// row per reviewerless company. The header is always written, so an
// empty crawl still produces a valid file.
type CSVExporter struct{}

// Filename implements Exporter.
func (e *CSVExporter) Filename(base string) string {
	return base + ".csv"
}

// Export implements Exporter.
func (e *CSVExporter) Export(records []*model.ScrapedData, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(model.FlatColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, record := range records {
		for _, row := range record.FlatRows() {
			if err := w.Write(row.Strings()); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}
