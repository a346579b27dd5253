// Package metrics exposes Prometheus collectors for the availability
// engine and its HTTP surface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "crewcall"
	subsystem = "availability"
)

// Metrics holds the engine's Prometheus collectors. A nil *Metrics is
// valid and records nothing, so the engine can run uninstrumented in
// tests and one-shot CLI invocations.
type Metrics struct {
	queriesTotal   *prometheus.CounterVec
	queryDuration  *prometheus.HistogramVec
	conflictsTotal prometheus.Counter
}

// New registers the engine collectors with the given registerer
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		queriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "queries_total",
			Help:      "Availability queries by mode and terminal state.",
		}, []string{"mode", "state"}),
		queryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "query_duration_seconds",
			Help:      "End-to-end availability query latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode"}),
		conflictsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "conflicts_detected_total",
			Help:      "Booking and unavailability conflicts surfaced in results.",
		}),
	}
}

// ObserveQuery records one completed query
func (m *Metrics) ObserveQuery(mode, state string, seconds float64) {
	if m == nil {
		return
	}
	m.queriesTotal.WithLabelValues(mode, state).Inc()
	m.queryDuration.WithLabelValues(mode).Observe(seconds)
}

// AddConflicts records conflicts surfaced by one query
func (m *Metrics) AddConflicts(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.conflictsTotal.Add(float64(n))
}
