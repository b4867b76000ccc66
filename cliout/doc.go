// Package cliout provides structured output formatting for procport commands.
// It supports human-readable and JSON output with consistent ANSI styling,
// terminal-aware color detection, and port/process status coloring.
//
// All user-facing output goes through this package; diagnostics go through
// the logutil package instead.
package cliout
