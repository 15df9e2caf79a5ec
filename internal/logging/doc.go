// Package logging assembles structured slog loggers and formatting helpers used
// across fontsieve.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so batch code can tag log lines
// with run IDs. An optional log file receives a JSON copy of every record via
// the tee handler. The package also provides a no-op logger for tests and
// wiring code that cannot fail.
package logging
