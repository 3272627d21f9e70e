// Package logging builds the application's slog loggers and defines the
// standardized attribute keys used across components. Console output uses a
// compact single-line format; JSON output is available for machine
// consumption.
package logging
