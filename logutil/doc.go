// Package logutil configures the process-wide slog logger for procport.
// Diagnostics go to stderr; user-facing output belongs to the cliout package.
package logutil
