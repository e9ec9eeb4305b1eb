package log

import (
	"io"
	"log/slog"
)

// New creates a structured text logger writing to w. Verbose mode lowers
// the level to debug, which includes every fetched URL; the default info
// level reports crawl progress without per-request noise.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewDiscard creates a logger that drops everything. Tests use it to keep
// output quiet.
func NewDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
