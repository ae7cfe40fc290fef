package utils

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
)

// Logger provides leveled, printf-style logging throughout the application.
type Logger struct {
	log *slog.Logger
}

// NewLogger creates a Logger writing coloured output to stdout at INFO level.
func NewLogger() *Logger {
	return NewLoggerWithLevel(os.Stdout, "info")
}

// NewLoggerWithLevel creates a Logger writing to w, dropping records below level.
func NewLoggerWithLevel(w io.Writer, level string) *Logger {
	handler := tint.NewHandler(w, &tint.Options{
		Level:      parseLevel(level),
		TimeFormat: "2006-01-02 15:04:05",
	})
	return &Logger{log: slog.New(handler)}
}

// With returns a Logger that attaches the given key/value pairs to every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{log: l.log.With(args...)}
}

func (l *Logger) Info(format string, args ...any) {
	l.log.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(format string, args ...any) {
	l.log.Warn(fmt.Sprintf(format, args...))
}

func (l *Logger) Error(format string, args ...any) {
	l.log.Error(fmt.Sprintf(format, args...))
}

func (l *Logger) Debug(format string, args ...any) {
	l.log.Debug(fmt.Sprintf(format, args...))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
