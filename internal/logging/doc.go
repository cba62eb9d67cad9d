// Package logging builds the slog loggers used across socialmediagen.
//
// It wires console and JSON handlers from configuration, keeps stdout free
// for CLI table output, and offers small attr helpers plus a no-op logger
// for tests.
package logging
