// Package logger declares the logging contract used by core packages. Core
// code never builds a concrete logger; adapters live in infra/logger.
package logger

// Logger exposes leveled, printf-style logging plus one structured variant.
type Logger interface {
	Debugf(format string, args ...any)
	// Debugw logs a message with structured fields.
	Debugw(msg string, fields map[string]any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}
