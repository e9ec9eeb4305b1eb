// Package export writes crawl results to disk in several formats at
// once. Every format works from the same record set; flat formats (CSV,
// SQLite) expand each record to one row per reviewer, nested formats
// (JSON) keep the full structure, and the Markdown and text reports
// summarize. One format failing never blocks the others.
package export
