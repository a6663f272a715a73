package importer

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// The pipeline emits two levels beyond slog's built-ins: NOTICE for run
// start/finish markers (between info and warn) and CRITICAL for persistence
// and file-level failures (above error).
const (
	LevelNotice   = slog.Level(2)
	LevelCritical = slog.Level(12)
)

// Logger wraps slog.Logger with the two extra levels.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger writing to stdout. format can be "json" or
// "text" (default is json).
func NewLogger(level slog.Level, format string) *Logger {
	return newLogger(os.Stdout, level, format)
}

func newLogger(w io.Writer, level slog.Level, format string) *Logger {
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lv, ok := a.Value.Any().(slog.Level); ok {
					switch lv {
					case LevelNotice:
						a.Value = slog.StringValue("NOTICE")
					case LevelCritical:
						a.Value = slog.StringValue("CRITICAL")
					}
				}
			}
			return a
		},
	}
	var handler slog.Handler
	switch format {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}
	return &Logger{Logger: slog.New(handler)}
}

func (l *Logger) Notice(msg string, args ...any) {
	l.Log(context.Background(), LevelNotice, msg, args...)
}

func (l *Logger) Critical(msg string, args ...any) {
	l.Log(context.Background(), LevelCritical, msg, args...)
}

// With returns a new logger with the given attributes added.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// ParseLevel converts a string log level to slog.Level. Valid values:
// "debug", "info", "notice", "warn", "error", "critical". Invalid values
// fall back to info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "notice":
		return LevelNotice
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "critical":
		return LevelCritical
	default:
		return slog.LevelInfo
	}
}
