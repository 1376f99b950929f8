package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for record mutations.
type Metrics struct {
	Mutations        *prometheus.CounterVec
	AuditEntries     prometheus.Counter
	MutationDuration *prometheus.HistogramVec
}

// New creates a Metrics instance with all mutation metrics registered on the
// default registry. Call once per process.
func New() *Metrics {
	return &Metrics{
		Mutations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "opsdesk_mutations_total",
			Help: "Record mutations by record class and outcome",
		}, []string{"record", "outcome"}),
		AuditEntries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "opsdesk_audit_entries_total",
			Help: "Total audit entries written",
		}),
		MutationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "opsdesk_mutation_duration_seconds",
			Help:    "Duration of the fetch-derive-persist sequence",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"record"}),
	}
}

// RecordMutation counts one mutation attempt and its duration.
func (m *Metrics) RecordMutation(record, outcome string, start time.Time) {
	m.Mutations.WithLabelValues(record, outcome).Inc()
	m.MutationDuration.WithLabelValues(record).Observe(time.Since(start).Seconds())
}

// AddAuditEntries counts persisted audit entries.
func (m *Metrics) AddAuditEntries(n int) {
	m.AuditEntries.Add(float64(n))
}
