// Package logging configures the process-wide structured logger.
//
// Vigil logs through log/slog everywhere; components derive their own
// scoped loggers with slog.Default().With("component", ...). This package
// builds the root handler from configuration (level, json/text format,
// output destination) and installs it as the slog default.
package logging
