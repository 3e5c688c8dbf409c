// Package logging configures the process-wide slog logger: JSON records to
// stderr and, optionally, to a size-rotated log file.
package logging
