package http

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the server's instrumentation on its own registry, so tests
// and embedders never collide with the global one.
type Metrics struct {
	registry *prometheus.Registry

	solves   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates and registers the server metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		solves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credence_solves_total",
				Help: "Total number of solve requests by status.",
			},
			[]string{"status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "credence_solve_duration_seconds",
				Help:    "Duration of solve requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"status"},
		),
	}
	m.registry.MustRegister(m.solves, m.duration)
	return m
}

func (m *Metrics) observeSolve(status string, seconds float64) {
	m.solves.WithLabelValues(status).Inc()
	m.duration.WithLabelValues(status).Observe(seconds)
}
