package logutil

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// EnvDebug enables debug logging when set to "true".
const EnvDebug = "PROCPORT_DEBUG"

var (
	mu           sync.RWMutex
	globalLogger *slog.Logger
	debugEnabled           = false
	isStructured           = false
	outputWriter io.Writer = os.Stderr
)

func init() {
	Setup(os.Getenv(EnvDebug) == "true", false)
}

// Setup configures the global logger.
//
// When debug is true, debug-level records are emitted. When structured is
// true, records are JSON; otherwise slog's text format is used. The logger
// writes to stderr so it never interleaves with cliout's stdout output.
// Safe for concurrent use.
func Setup(debug, structured bool) {
	mu.Lock()
	defer mu.Unlock()
	debugEnabled = debug
	isStructured = structured
	rebuild()
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	outputWriter = w
	rebuild()
}

// rebuild recreates the logger from current settings. Caller holds mu.
func rebuild() {
	level := slog.LevelInfo
	if debugEnabled {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if isStructured {
		handler = slog.NewJSONHandler(outputWriter, opts)
	} else {
		handler = slog.NewTextHandler(outputWriter, opts)
	}
	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}

// IsDebugEnabled returns true if debug logging is on, either programmatically
// or via the PROCPORT_DEBUG environment variable.
func IsDebugEnabled() bool {
	mu.RLock()
	enabled := debugEnabled
	mu.RUnlock()
	return enabled || os.Getenv(EnvDebug) == "true"
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) {
	if IsDebugEnabled() {
		Logger().Debug(msg, args...)
	}
}

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) {
	Logger().Info(msg, args...)
}

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

// Error logs an error message with optional key-value pairs.
//
// Example:
//
//	logutil.Error("terminate failed", "pid", pid, "error", err)
func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}

// Logger returns the underlying slog.Logger for advanced usage.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}
