package utils

import (
	"bytes"
	"encoding/json"
	"flag"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setTestFlag sets a flag to a specific value for the duration of the test.
func setTestFlag(t *testing.T, name, value string) {
	t.Helper()
	flagHolder := flag.Lookup(name)
	require.NotNil(t, flagHolder, "Flag %s not found", name)
	prevValue := flagHolder.Value.String() // Revert the flag value back to its original when the test is done.
	t.Cleanup(func() { require.NoError(t, flag.Set(name, prevValue)) })
	require.NoError(t, flag.Set(name, value))
}

// restoreDefaultLogger puts back the default slog logger once the test is done.
func restoreDefaultLogger(t *testing.T) {
	t.Helper()
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })
}

func TestInitLoggingWith(t *testing.T) {
	t.Run("JSON handler honours level", func(t *testing.T) {
		restoreDefaultLogger(t)
		var out bytes.Buffer
		initLoggingWith(&out, HandlerTypeJSON, LogLevelWarn)

		slog.Info("Dropped because of the level.")
		slog.Warn("Kept.", "answer", 42)

		var record map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &record), "Expected exactly one JSON record")
		assert.Equal(t, "Kept.", record["msg"])
		assert.Equal(t, "WARN", record["level"])
		assert.EqualValues(t, 42, record["answer"])
	})

	t.Run("Text handler", func(t *testing.T) {
		restoreDefaultLogger(t)
		var out bytes.Buffer
		initLoggingWith(&out, HandlerTypeText, LogLevelDebug)

		slog.Debug("Debug line.")
		assert.Contains(t, out.String(), "level=DEBUG")
		assert.Contains(t, out.String(), `msg="Debug line."`)
	})

	t.Run("Unsupported handler type falls back to JSON", func(t *testing.T) {
		if IsTestMode {
			t.Skip("Raised invariants panic in test builds.")
		}
		restoreDefaultLogger(t)
		invariantsMetric.Reset()
		var out bytes.Buffer
		initLoggingWith(&out, LogHandlerType("xml"), LogLevelInfo)

		assert.Equal(t, 1, GetMetricValue("log", "unsupported_handler_type"))
		out.Reset()
		slog.Info("After fallback.")
		assert.True(t, json.Valid(out.Bytes()), "Expected JSON output, got %q", out.String())
	})
}

func TestInitLogging_Flags(t *testing.T) {
	restoreDefaultLogger(t)
	setTestFlag(t, "log_handler_type", "TEXT")
	setTestFlag(t, "log_level", "error")
	InitLogging()

	assert.False(t, slog.Default().Enabled(t.Context(), slog.LevelWarn))
	assert.True(t, slog.Default().Enabled(t.Context(), slog.LevelError))
}
