package logging

import (
	"log/slog"
	"os"
	"strings"
)

var log *slog.Logger

// Init installs the process-wide logger. Format is "text" or "json"; level is
// one of debug/info/warn/error. Unknown values fall back to text at info.
func Init(level, format string) {
	var lvl slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if strings.ToLower(strings.TrimSpace(format)) == "json" {
		log = slog.New(slog.NewJSONHandler(os.Stdout, opts))
		return
	}
	log = slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// Debug logs with slog-style key/value pairs.
func Debug(msg string, args ...any) {
	if log == nil {
		return
	}
	log.Debug(msg, args...)
}

// Info logs with slog-style key/value pairs.
func Info(msg string, args ...any) {
	if log == nil {
		return
	}
	log.Info(msg, args...)
}

// Warn logs with slog-style key/value pairs.
func Warn(msg string, args ...any) {
	if log == nil {
		return
	}
	log.Warn(msg, args...)
}

// Error logs with slog-style key/value pairs.
func Error(msg string, args ...any) {
	if log == nil {
		return
	}
	log.Error(msg, args...)
}
