// Package logging is the process-wide structured logger. Records are written
// as slog text to stderr so that stdout carries only command output.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogLevel is a level name as accepted in LOG_LEVEL and the config file.
type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

var slogLevels = map[LogLevel]slog.Level{
	LevelDebug: slog.LevelDebug,
	LevelInfo:  slog.LevelInfo,
	LevelWarn:  slog.LevelWarn,
	LevelError: slog.LevelError,
}

var defaultLogger *slog.Logger

// The environment sets the level until configuration has been loaded.
func init() {
	SetupLogger(os.Stderr, ParseLevel(os.Getenv("LOG_LEVEL")))
}

// ParseLevel maps a case-insensitive level name to a LogLevel. Unknown
// names fall back to info.
func ParseLevel(s string) LogLevel {
	level := LogLevel(strings.ToLower(strings.TrimSpace(s)))
	if level == "warning" {
		return LevelWarn
	}
	if _, ok := slogLevels[level]; ok {
		return level
	}
	return LevelInfo
}

// SetupLogger replaces the process logger with a text handler on w that
// drops records below level.
func SetupLogger(w io.Writer, level LogLevel) {
	minLevel, ok := slogLevels[level]
	if !ok {
		minLevel = slog.LevelInfo
	}

	defaultLogger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: minLevel}))
	slog.SetDefault(defaultLogger)
}

func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
}

// MaskSensitive renders a credential for log output, keeping at most its
// first four characters.
func MaskSensitive(value string) string {
	switch {
	case value == "":
		return "<not set>"
	case len(value) <= 4:
		return "<set>"
	default:
		return value[:4] + "...***"
	}
}
