package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	exerciseWriteGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fittrack",
		Subsystem: "exercises",
		Name:      "last_write_timestamp_seconds",
		Help:      "Unix timestamp of the most recent exercise add, update or delete applied to the store.",
	})

	exerciseReadGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fittrack",
		Subsystem: "exercises",
		Name:      "last_read_timestamp_seconds",
		Help:      "Unix timestamp of the most recent exercise list operation.",
	})

	storeOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fittrack",
		Subsystem: "docstore",
		Name:      "operations_total",
		Help:      "Document store operations grouped by backend, operation and outcome.",
	}, []string{"backend", "op", "outcome"})

	storeDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fittrack",
		Subsystem: "docstore",
		Name:      "operation_duration_seconds",
		Help:      "Latency of document store operations.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{"backend", "op"})

	sideEffectFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fittrack",
		Subsystem: "exercises",
		Name:      "side_effect_failures_total",
		Help:      "Cache invalidations or event publishes that failed after a successful store write.",
	}, []string{"kind"})
)

func init() {
	prometheus.MustRegister(exerciseWriteGauge, exerciseReadGauge, storeOperations, storeDuration, sideEffectFailures)
}

// RecordExerciseWrite updates the write watermark.
func RecordExerciseWrite(ts time.Time) {
	if ts.IsZero() {
		return
	}
	exerciseWriteGauge.Set(float64(ts.Unix()))
}

// RecordExerciseRead updates the read watermark.
func RecordExerciseRead(ts time.Time) {
	if ts.IsZero() {
		return
	}
	exerciseReadGauge.Set(float64(ts.Unix()))
}

// RecordStoreOperation counts a finished store call and observes its latency.
func RecordStoreOperation(backend, op string, elapsed time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	storeOperations.WithLabelValues(backend, op, outcome).Inc()
	storeDuration.WithLabelValues(backend, op).Observe(elapsed.Seconds())
}

// RecordSideEffectFailure counts a failed post-write side effect ("cache" or "publish").
func RecordSideEffectFailure(kind string) {
	sideEffectFailures.WithLabelValues(kind).Inc()
}

// StoreOperationCounter exposes the counter for assertions in tests.
func StoreOperationCounter(backend, op, outcome string) prometheus.Counter {
	return storeOperations.WithLabelValues(backend, op, outcome)
}

// StoreDurationObserver exposes the latency histogram for assertions in tests.
func StoreDurationObserver(backend, op string) prometheus.Observer {
	return storeDuration.WithLabelValues(backend, op)
}

// SideEffectFailureCounter exposes the side-effect failure counter for assertions in tests.
func SideEffectFailureCounter(kind string) prometheus.Counter {
	return sideEffectFailures.WithLabelValues(kind)
}
