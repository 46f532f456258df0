// Package logger is a thin factory over log/slog: it builds loggers with a
// chosen format (JSON for production, text for development), level, output
// and static attributes, plus a few attribute helpers used across the
// library's diagnostics.
package logger
