package source

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts loader activity.
type Metrics struct {
	Documents     *prometheus.CounterVec
	Bytes         *prometheus.CounterVec
	FetchDuration prometheus.Histogram
	CircuitTrips  *prometheus.CounterVec
}

// NewMetrics registers loader metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Documents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "soupsavvy_source_documents_total",
				Help: "Documents loaded by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		Bytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "soupsavvy_source_bytes_total",
				Help: "Bytes read from documents by kind",
			},
			[]string{"kind"},
		),
		FetchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "soupsavvy_source_fetch_duration_seconds",
				Help:    "Duration of document fetches over HTTP",
				Buckets: prometheus.DefBuckets,
			},
		),
		CircuitTrips: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "soupsavvy_source_circuit_transitions_total",
				Help: "Per-host circuit state transitions",
			},
			[]string{"to"},
		),
	}
}

func (m *Metrics) loaded(kind string, size int, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Documents.WithLabelValues(kind, outcome).Inc()
	if size > 0 {
		m.Bytes.WithLabelValues(kind).Add(float64(size))
	}
}
