package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	current     atomic.Pointer[slog.Logger]
	defaultOnce sync.Once
)

// Init configures the JSON logger. When dir is non-empty the output is also
// written to a rotating file in that directory.
func Init(level, dir string) {
	l := newLogger(level, dir)
	current.Store(l)
	slog.SetDefault(l)
}

func newLogger(level, dir string) *slog.Logger {
	var out io.Writer = os.Stdout
	if dir != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   filepath.Join(dir, "portal.log"),
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		})
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level:     parseLevel(level),
		AddSource: true,
	})
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// get falls back to an info-level stdout logger when Init was never called.
func get() *slog.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	defaultOnce.Do(func() {
		l := newLogger("info", "")
		if current.CompareAndSwap(nil, l) {
			slog.SetDefault(l)
		}
	})
	return current.Load()
}

// LogError logs an error with a message and optional key-value pairs
func LogError(msg string, err error, args ...any) {
	attrs := []any{"error", err}
	attrs = append(attrs, args...)
	get().Error(msg, attrs...)
}

// LogInfo logs an informational message with optional key-value pairs
func LogInfo(msg string, args ...any) {
	get().Info(msg, args...)
}

// LogWarn logs a warning message with optional key-value pairs
func LogWarn(msg string, args ...any) {
	get().Warn(msg, args...)
}

// LogDebug logs a debug message with optional key-value pairs
func LogDebug(msg string, args ...any) {
	get().Debug(msg, args...)
}
