// Package log builds the application logger on top of the standard slog
// package. It centralizes the level policy: info by default, debug in
// verbose mode, so every command and component logs consistently.
package log
