package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWithWriter_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, int(slog.LevelWarn))

	l.Info("Journal service: hidden")
	l.Warn("Journal service: shown", "user_id", "42")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "Journal service: shown")
	assert.Contains(t, out, "user_id=42")
}

func TestWith_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, 0).With("component", "pipeline")

	l.Info("started")

	assert.Contains(t, buf.String(), "component=pipeline")
}
