// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultNamespace is used when NewMetrics is called with an empty namespace.
const DefaultNamespace = "jyotish_lab"

// Metrics holds all Prometheus metrics for the application.
// All Record* methods are safe to call on a nil *Metrics.
type Metrics struct {
	// Ephemeris metrics
	EphemerisCalls   *prometheus.CounterVec
	EphemerisLatency *prometheus.HistogramVec

	// Search metrics
	SearchOutcomes *prometheus.CounterVec
	SearchDays     prometheus.Histogram

	// Engine metrics
	EngineResults *prometheus.CounterVec

	// Chart metrics
	ChartsAssembled prometheus.Counter
	BodiesFailed    prometheus.Counter

	// Storage metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
	SamplesStored   prometheus.Counter
}

// NewMetrics creates a Metrics instance registered with reg.
// A nil reg registers with a fresh private registry.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)

	return &Metrics{
		EphemerisCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ephemeris",
			Name:      "calls_total",
			Help:      "Total number of ephemeris lookups by provider and status",
		}, []string{"provider", "status"}),
		EphemerisLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ephemeris",
			Name:      "latency_seconds",
			Help:      "Ephemeris lookup latency in seconds",
			Buckets:   []float64{.0001, .001, .005, .01, .05, .1, .5, 1, 5},
		}, []string{"provider"}),

		SearchOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "outcomes_total",
			Help:      "Boundary searches by outcome (found, horizon_exceeded, failed)",
		}, []string{"outcome"}),
		SearchDays: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "days_stepped",
			Help:      "Days stepped before a boundary search terminated",
			Buckets:   []float64{1, 10, 100, 500, 1000, 2000, 4000},
		}),

		EngineResults: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sadesati",
			Name:      "results_total",
			Help:      "Phase engine results by status and phase",
		}, []string{"status", "phase"}),

		ChartsAssembled: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chart",
			Name:      "assembled_total",
			Help:      "Total number of body charts assembled",
		}),
		BodiesFailed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chart",
			Name:      "bodies_failed_total",
			Help:      "Total number of bodies whose chart could not be computed",
		}),

		DBQueryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"database", "operation"}),
		DBQueryErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
		SamplesStored: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "samples_stored_total",
			Help:      "Total number of longitude samples stored",
		}),
	}
}

// RecordEphemerisCall records one ephemeris lookup.
func (m *Metrics) RecordEphemerisCall(provider string, seconds float64, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.EphemerisCalls.WithLabelValues(provider, status).Inc()
	m.EphemerisLatency.WithLabelValues(provider).Observe(seconds)
}

// RecordSearch records a finished boundary search.
func (m *Metrics) RecordSearch(outcome string, days int) {
	if m == nil {
		return
	}
	m.SearchOutcomes.WithLabelValues(outcome).Inc()
	m.SearchDays.Observe(float64(days))
}

// RecordEngineResult records a phase engine result.
func (m *Metrics) RecordEngineResult(status, phase string) {
	if m == nil {
		return
	}
	m.EngineResults.WithLabelValues(status, phase).Inc()
}

// RecordChart records an assembled body chart.
func (m *Metrics) RecordChart(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.BodiesFailed.Inc()
		return
	}
	m.ChartsAssembled.Inc()
}

// RecordDBQuery records database query metrics.
func (m *Metrics) RecordDBQuery(database, operation string, seconds float64, err error) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		m.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// RecordSamplesStored adds n to the stored samples counter.
func (m *Metrics) RecordSamplesStored(n int) {
	if m == nil {
		return
	}
	m.SamplesStored.Add(float64(n))
}

// WriteTextfile writes all metrics gathered by g to path in the text exposition
// format, for the node-exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
