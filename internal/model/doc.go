// Package model defines the data structures produced by a crawl.
//
// The aggregate root is ScrapedData: one crawl result for one company in one
// subcategory, owning a CompetitorInfo and an ordered list of ReviewerInfo
// records. Each reviewer owns exactly one ProjectInfo describing the reviewed
// engagement.
//
// Design decision: We keep the model free of extraction and export logic.
// Extractors populate these structs field by field under best-effort
// heuristics, so every field except the aggregate's category metadata is
// optional; "absent" is the zero value. Export formats consume the model
// through FlatRows, which defines the single flattening convention shared
// by CSV, SQLite, and spreadsheet-style outputs.
package model
