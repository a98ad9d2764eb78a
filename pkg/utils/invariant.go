// The invariant helpers of package utils introduce a way to handle unexpected bugs / conditions in code.
// Invariants are conditions in code that must be true; otherwise, there is a bug in code.
//
// Two flavours exist. RaiseInvariant records the violation (an error log and a monitoring counter) and lets the
// caller decide how to continue; it is meant for conditions the caller can still patch up locally, such as clamping
// a counter that went negative. FailInvariant records the violation the same way and then panics; it is meant for
// conditions where continuing would hand out corrupted data, e.g. moving an element out of a node that something
// else still points to.
//
// Do not use invariants for conditions that depend on the caller's input being "normal"; for example,
// popping from an empty list is an expected outcome and not an invariant violation.

package utils

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	promclient "github.com/prometheus/client_model/go"
)

var invariantsMetric = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "invariants_total",
	Help: "The total number of invariant violations",
}, []string{
	"module", // The module in which this invariant occurred.
	"type",   // The type of the invariant that occurred.
})

// recordInvariant bumps the violation counter and writes the error log shared by both invariant flavours.
func recordInvariant(module, invariantType, msg string, args ...any) {
	invariantsMetric.WithLabelValues(module, invariantType).Inc()
	slog.With("invariant", invariantType, "module", module,
		"version", Version, "commit", Commit, "buildTime", BuildTime, "uptime", time.Since(StartTime)).Error(msg, args...)
}

// RaiseInvariant records a violated invariant. It only panics in test builds (see TestMode).
func RaiseInvariant(module, invariantType, msg string, args ...any) {
	recordInvariant(module, invariantType, msg, args...)
	if IsTestMode {
		panic("invariant violated: " + invariantType)
	}
}

// FailInvariant records a violated invariant and panics with `err`, regardless of the build mode.
func FailInvariant(module, invariantType string, err error, msg string, args ...any) {
	recordInvariant(module, invariantType, msg, append(args, "error", err)...)
	panic(err)
}

// GetMetricValue returns the current value of invariant metric with labels `module` and `invariantType`.
func GetMetricValue(module, invariantType string) int {
	var metric = &promclient.Metric{}
	if err := invariantsMetric.WithLabelValues(module, invariantType).Write(metric); err != nil {
		slog.Error(err.Error())
		return 0
	}
	return int(metric.Counter.GetValue())
}
