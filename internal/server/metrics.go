package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds HTTP API metrics.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Matches         *prometheus.HistogramVec
}

// NewMetrics registers API metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "soupsavvy_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "soupsavvy_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Matches: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "soupsavvy_results_per_request",
				Help:    "Elements or records returned per request",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
			[]string{"endpoint"},
		),
	}
}

// RecordRequest records one finished request.
func (m *Metrics) RecordRequest(method, route, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, route, status).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) recordResults(endpoint string, n int) {
	m.Matches.WithLabelValues(endpoint).Observe(float64(n))
}
