package export

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/clutchscan/clutchscan/internal/model"
)

// Format identifies one export format.
type Format string

// Supported export formats.
const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatSQLite   Format = "sqlite"
	FormatMarkdown Format = "markdown"
	FormatSummary  Format = "summary"
)

// Exporter writes a record set to one file in one format.
//
// Design decision: We use an interface with a Filename method rather
// than hardcoding extensions in the manager because the summary format
// derives its name differently (a suffix, not just an extension), and
// new formats should carry their own naming.
type Exporter interface {
	// Export writes records to path.
	Export(records []*model.ScrapedData, path string) error

	// Filename derives the output file name from the run's base name.
	Filename(base string) string
}

// Formats returns all supported formats in their export order.
func Formats() []Format {
	return []Format{FormatJSON, FormatCSV, FormatSQLite, FormatMarkdown, FormatSummary}
}

// exporters maps each format to its implementation. The summary format
// carries the run's failure tally.
func (m *Manager) exporters() map[Format]Exporter {
	return map[Format]Exporter{
		FormatJSON:     &JSONExporter{Indent: "  "},
		FormatCSV:      &CSVExporter{},
		FormatSQLite:   &SQLiteExporter{},
		FormatMarkdown: &MarkdownExporter{},
		FormatSummary:  &SummaryExporter{Failures: m.failures},
	}
}

// Manager fans a record set out to every requested format.
type Manager struct {
	outputDir string
	formats   []Format
	failures  map[string]int
	logger    *slog.Logger

	// now is injectable for tests; it stamps the default base name.
	now func() time.Time
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithFormats restricts the export to the given formats. The default is
// all supported formats.
func WithFormats(formats []Format) ManagerOption {
	return func(m *Manager) {
		if len(formats) > 0 {
			m.formats = formats
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithFailures attaches the run's failure tally so the summary export
// can report the errors alongside the data counts.
func WithFailures(failures map[string]int) ManagerOption {
	return func(m *Manager) {
		m.failures = failures
	}
}

// NewManager creates a Manager writing into outputDir, creating the
// directory if needed.
func NewManager(outputDir string, opts ...ManagerOption) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0750); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", outputDir, err)
	}

	m := &Manager{
		outputDir: outputDir,
		formats:   Formats(),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.logger == nil {
		m.logger = slog.Default()
	}

	return m, nil
}

// ExportAll writes records in every configured format and returns the
// written file path per format. A failing format is logged and skipped;
// its error is joined into the returned error while the other formats
// still run. base names the file set; empty means a timestamped default.
func (m *Manager) ExportAll(records []*model.ScrapedData, base string) (map[Format]string, error) {
	if base == "" {
		base = "clutch_data_" + m.now().Format("20060102_150405")
	}

	impls := m.exporters()
	written := make(map[Format]string, len(m.formats))
	var errs []error

	for _, format := range m.formats {
		exporter, ok := impls[format]
		if !ok {
			errs = append(errs, fmt.Errorf("unknown export format %q", format))
			continue
		}

		path := filepath.Join(m.outputDir, exporter.Filename(base))
		if err := exporter.Export(records, path); err != nil {
			m.logger.Error("export failed", "format", format, "path", path, "error", err)
			errs = append(errs, fmt.Errorf("%s export: %w", format, err))
			continue
		}

		m.logger.Info("exported", "format", format, "path", path, "records", len(records))
		written[format] = path
	}

	return written, errors.Join(errs...)
}
