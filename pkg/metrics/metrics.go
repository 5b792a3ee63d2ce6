// Package metrics exposes prometheus instrumentation for store mutations and
// lookups.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/samanvaya/samanvaya/pkg/errs"
)

var (
	// mutationTotal counts store mutations by table, action and result
	mutationTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "samanvaya_mutations_total",
		Help: "Total store mutations by table, action and result",
	}, []string{"table", "action", "result"})

	// lookupDuration tracks query latency of the lookup API
	lookupDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "samanvaya_lookup_duration_seconds",
		Help:    "Lookup duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
	}, []string{"operation"})
)

// ObserveMutation records the outcome of a create, edit or delete.
func ObserveMutation(table, action string, err error) {
	mutationTotal.WithLabelValues(table, action, Result(err)).Inc()
}

// ObserveLookup records the latency of a lookup operation started at begin.
func ObserveLookup(operation string, begin time.Time) {
	lookupDuration.WithLabelValues(operation).Observe(time.Since(begin).Seconds())
}

// Result maps an error onto a bounded label value.
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, errs.ErrForbidden):
		return "forbidden"
	case errors.Is(err, errs.ErrNotFound):
		return "not_found"
	case errors.Is(err, errs.ErrValidation):
		return "invalid"
	case errors.Is(err, errs.ErrUnknownCategory):
		return "unknown_category"
	default:
		return "error"
	}
}
