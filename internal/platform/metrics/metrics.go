package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	Mutations        *prometheus.CounterVec
	DeniedOperations *prometheus.CounterVec
	RecordsAppended  prometheus.Counter
	RecordsRedacted  prometheus.Counter
	ReadLatency      prometheus.Histogram
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		Mutations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "datatrail_mutations_total",
			Help: "Total number of accepted state mutations by operation",
		}, []string{"operation"}),
		DeniedOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "datatrail_denied_operations_total",
			Help: "Total number of operations declined before any state change",
		}, []string{"operation", "code"}),
		RecordsAppended: promauto.NewCounter(prometheus.CounterOpts{
			Name: "datatrail_records_appended_total",
			Help: "Total number of data records appended across all subjects",
		}),
		RecordsRedacted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "datatrail_records_redacted_total",
			Help: "Total number of record redactions applied",
		}),
		ReadLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "datatrail_read_latency_seconds",
			Help:    "Latency of gated read operations",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// IncMutation records an accepted mutation.
func (m *Metrics) IncMutation(operation string) {
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(operation).Inc()
}

// IncDenied records a declined operation with its failure code.
func (m *Metrics) IncDenied(operation, code string) {
	if m == nil {
		return
	}
	m.DeniedOperations.WithLabelValues(operation, code).Inc()
}

// IncRecordsAppended records one accepted record append.
func (m *Metrics) IncRecordsAppended() {
	if m == nil {
		return
	}
	m.RecordsAppended.Inc()
}

// IncRecordsRedacted records one applied redaction.
func (m *Metrics) IncRecordsRedacted() {
	if m == nil {
		return
	}
	m.RecordsRedacted.Inc()
}

// ObserveRead records the latency of a gated read.
func (m *Metrics) ObserveRead(d time.Duration) {
	if m == nil {
		return
	}
	m.ReadLatency.Observe(d.Seconds())
}
