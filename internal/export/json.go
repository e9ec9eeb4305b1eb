package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/clutchscan/clutchscan/internal/model"
)

// JSONExporter writes the full nested record structure. This is the
// lossless format: everything the crawl collected round-trips through it.
type JSONExporter struct {
	// Indent is the indentation string; empty means compact output.
	Indent string
}

// Filename implements Exporter.
func (e *JSONExporter) Filename(base string) string {
	return base + ".json"
}

// Export implements Exporter. An empty record set writes an empty JSON
// array, not null, so downstream consumers always see a list.
func (e *JSONExporter) Export(records []*model.ScrapedData, path string) error {
	if records == nil {
		records = []*model.ScrapedData{}
	}

	var (
		data []byte
		err  error
	)
	if e.Indent != "" {
		data, err = json.MarshalIndent(records, "", e.Indent)
	} else {
		data, err = json.Marshal(records)
	}
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
