package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"t", LevelTrace},
		{"TRACE", LevelTrace},
		{"d", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"Warning", slog.LevelWarn},
		{"e", slog.LevelError},
		{"fat", LevelFatal},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if assert.NoError(t, err, tt.in) {
			assert.Equal(t, tt.want, got, tt.in)
		}
	}
	for _, in := range []string{"", "verbose", "infos"} {
		_, err := ParseLevel(in)
		assert.ErrorIs(t, err, ErrLevel, in)
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelTrace)
	log.Log(context.Background(), LevelTrace, "tracing", "zone", "Europe/Berlin")
	log.Log(context.Background(), LevelFatal, "giving up")
	out := buf.String()
	assert.Contains(t, out, "level=TRACE msg=tracing zone=Europe/Berlin")
	assert.Contains(t, out, "level=FATAL msg=\"giving up\"")

	buf.Reset()
	log = New(&buf, slog.LevelWarn)
	log.Info("hidden")
	assert.Empty(t, buf.String())
}
