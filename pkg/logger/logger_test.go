package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesFields(t *testing.T) {
	SetLevel(slog.LevelInfo)
	var buf bytes.Buffer
	l := New(&buf).Named("ws").With(String("session", "abc"))

	l.Info(context.Background(), "prediction done", Float64("kwh", 3.5), Int("rows", 24), Error(errors.New("none")))

	out := buf.String()
	assert.Contains(t, out, "msg=\"prediction done\"")
	assert.Contains(t, out, "logger=ws")
	assert.Contains(t, out, "session=abc")
	assert.Contains(t, out, "kwh=3.5")
	assert.Contains(t, out, "rows=24")
	assert.Contains(t, out, "error=none")
	assert.Contains(t, out, "source=logger_test.go:")
}

func TestSetLevelString(t *testing.T) {
	defer SetLevel(slog.LevelInfo)

	var buf bytes.Buffer
	l := New(&buf)

	require.NoError(t, SetLevelString("warn"))
	l.Info(context.Background(), "hidden")
	l.Warn(context.Background(), "shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	require.NoError(t, SetLevelString("DEBUG"))
	l.Debug(context.Background(), "debugging")
	assert.Contains(t, buf.String(), "debugging")

	assert.Error(t, SetLevelString("loud"))
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"info":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestGet_Initialized(t *testing.T) {
	Init()
	assert.NotNil(t, Get())
	assert.NotNil(t, Named("server"))
}
