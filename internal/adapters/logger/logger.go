// Package logger implements the logging adapter using log/slog.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"go.keyframe.sh/onion/internal/core/ports"
)

// envLevel is the environment variable controlling log verbosity.
// Accepted values: debug, info, warn, error. Unset or unknown means info.
const envLevel = "ONION_LOG"

// Logger implements ports.Logger on a slog text handler. Output goes to
// stderr so command output on stdout stays machine-readable.
type Logger struct {
	mu     sync.RWMutex
	logger *slog.Logger
	level  *slog.LevelVar
}

// New creates a Logger at the level named by ONION_LOG.
func New() ports.Logger {
	return NewWriter(os.Stderr, ParseLevel(os.Getenv(envLevel)))
}

// NewWriter creates a Logger writing to w at the given level. Tests and
// commands that capture output use this.
func NewWriter(w io.Writer, level slog.Level) *Logger {
	lv := new(slog.LevelVar)
	lv.Set(level)
	return &Logger{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lv})),
		level:  lv,
	}
}

// SetOutput swaps the output destination, keeping the level.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l.level}))
}

// SetLevel changes the verbosity of all current and future output.
func (l *Logger) SetLevel(level slog.Level) {
	l.level.Set(level)
}

// Debug logs at debug level with alternating key-value fields.
func (l *Logger) Debug(msg string, fields ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Debug(msg, fields...)
}

// Info logs at info level with alternating key-value fields.
func (l *Logger) Info(msg string, fields ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg, fields...)
}

// Warn logs at warn level with alternating key-value fields.
func (l *Logger) Warn(msg string, fields ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg, fields...)
}

// Error logs an error with alternating key-value fields appended after
// the error itself.
func (l *Logger) Error(err error, fields ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Error("operation failed", append([]any{"error", err}, fields...)...)
}

// ParseLevel maps a level name to its slog level. Unknown or empty
// names mean info.
func ParseLevel(v string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
