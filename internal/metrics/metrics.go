package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "txnguard"

var (
	RetryAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "retry",
			Name:      "attempts_total",
			Help:      "Statement executions made by the retry executor, by outcome.",
		}, []string{"outcome"})

	RetryBackoff = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "retry",
			Name:      "backoff_microseconds",
			Help:      "Backoff delays slept between attempts.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		})

	LinearizationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "linearize",
			Name:      "failures_total",
			Help:      "Transactions aborted by linearization checks, by reason.",
		}, []string{"reason"})

	ConflictsRecorded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "linearize",
			Name:      "conflicts_recorded_total",
			Help:      "Conflict records propagated to other backends at pre-commit.",
		})

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "active",
			Help:      "Sessions holding a control table slot.",
		})
)

const (
	OutcomeCommitted     = "committed"
	OutcomeSerialization = "serialization_failure"
	OutcomeExhausted     = "exhausted"
	OutcomeFailed        = "failed"

	ReasonPredicateLock = "predicate_lock"
	ReasonConflict      = "committed_writer"
	ReasonCapacity      = "capacity"
)

func init() {
	prometheus.MustRegister(
		RetryAttempts,
		RetryBackoff,
		LinearizationFailures,
		ConflictsRecorded,
		ActiveSessions,
	)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
