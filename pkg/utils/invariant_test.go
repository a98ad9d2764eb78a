package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRaiseInvariant(t *testing.T) {
	if IsTestMode {
		t.Skip("Raised invariants panic in test builds.")
	}
	invariantsMetric.Reset() // Reset the metric to ensure a clean state for the test
	RaiseInvariant("invariant", "test", "This is a test invariant violation")
	gotInvariants := GetMetricValue("invariant" /*module*/, "test" /*invariantType*/)
	assert.Equal(t, 1, gotInvariants)
}

func TestFailInvariant(t *testing.T) {
	invariantsMetric.Reset()
	errBroken := errors.New("broken")

	assert.PanicsWithError(t, "broken", func() {
		FailInvariant("invariant", "fatal", errBroken, "This is a fatal test invariant violation", "key", 42)
	})
	assert.Equal(t, 1, GetMetricValue("invariant" /*module*/, "fatal" /*invariantType*/))
	assert.Equal(t, 0, GetMetricValue("invariant" /*module*/, "test" /*invariantType*/),
		"Other invariant types shouldn't be touched")
}

func TestFailInvariant_LogsBuildInfo(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })
	var out bytes.Buffer
	slog.SetDefault(slog.New(slog.NewJSONHandler(&out, nil)))

	assert.Panics(t, func() { FailInvariant("invariant", "logged", errors.New("logged"), "Logged violation.") })

	var record map[string]any
	assert.NoError(t, json.Unmarshal(out.Bytes(), &record))
	assert.Equal(t, "logged", record["invariant"])
	assert.Equal(t, Version, record["version"])
	assert.Equal(t, Commit, record["commit"])
	assert.Equal(t, BuildTime, record["buildTime"])
	assert.Contains(t, record, "uptime")
	assert.Equal(t, "logged", record["error"])
}
