// Package logging sets up the structured logger of the command.
package logging

import (
	"errors"
	"io"
	"log/slog"
	"strings"
)

const (
	LevelTrace = slog.Level(-8)
	LevelFatal = slog.Level(12)
)

var levels = []struct {
	name  string
	level slog.Level
}{
	{"trace", LevelTrace},
	{"debug", slog.LevelDebug},
	{"info", slog.LevelInfo},
	{"warning", slog.LevelWarn},
	{"error", slog.LevelError},
	{"fatal", LevelFatal},
}

// ErrLevel is returned by ParseLevel for unknown level names.
var ErrLevel = errors.New(`loglevel must be a prefix of one of "trace", "debug", "info", "warning", "error" or "fatal"`)

// ParseLevel accepts any non-empty prefix of a level name, ignoring case.
func ParseLevel(s string) (slog.Level, error) {
	lv := strings.ToLower(strings.TrimSpace(s))
	if lv == "" {
		return 0, ErrLevel
	}
	for _, l := range levels {
		if strings.HasPrefix(l.name, lv) {
			return l.level, nil
		}
	}
	return 0, ErrLevel
}

// New returns a text logger writing to w.
func New(w io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key != slog.LevelKey || len(groups) > 0 {
				return a
			}
			lvl, _ := a.Value.Any().(slog.Level)
			switch lvl {
			case LevelTrace:
				a.Value = slog.StringValue("TRACE")
			case LevelFatal:
				a.Value = slog.StringValue("FATAL")
			}
			return a
		},
	}))
}
