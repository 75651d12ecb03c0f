package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(buf *bytes.Buffer, level slog.Level) *slog.Logger {
	return slog.New(NewHandler("Adify", WithWriter(buf), WithLevel(level), WithoutColor()))
}

func TestCustomHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, slog.LevelDebug)

	log.Info("Valuations refreshed",
		slog.String("type", "job"),
		slog.String("status", "ok"),
		slog.Int("countries", 3),
	)

	line := buf.String()
	assert.Contains(t, line, "[Adify]")
	assert.Contains(t, line, "[INFO]")
	assert.Contains(t, line, "[JOB]")
	assert.Contains(t, line, "Valuations refreshed [Status: ok]")
	assert.Contains(t, line, "countries=3")
	assert.NotContains(t, line, "type=")
}

func TestCustomHandler_ErrorDetails(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, slog.LevelDebug)

	log.Error("Settlement failed",
		slog.String("type", "db"),
		slog.Any("error", errors.New("connection reset")),
		slog.String("error_location", "ledger.go:42"),
	)

	line := buf.String()
	assert.Contains(t, line, "[ERROR]")
	assert.Contains(t, line, "[DB]")
	assert.Contains(t, line, "Settlement failed (ledger.go:42): connection reset")
}

func TestCustomHandler_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, slog.LevelWarn)

	log.Info("hidden")
	log.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestCustomHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, slog.LevelDebug).
		With(slog.String("type", "api")).
		WithGroup("pool")

	log.Info("Pool loaded", slog.Int64("id", 7))

	line := strings.TrimSpace(buf.String())
	require.NotEmpty(t, line)
	assert.Contains(t, line, "[API]")
	assert.Contains(t, line, "pool.id=7")
}
