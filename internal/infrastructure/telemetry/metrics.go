package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments for the service. A single
// instance is created at startup and shared; all instruments are safe for
// concurrent use.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	ReservationsTotal *prometheus.CounterVec
	LockAttemptsTotal *prometheus.CounterVec
	EventsPublished   *prometheus.CounterVec
}

// NewMetrics creates the registry and registers all instruments.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and path.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		ReservationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_reservations_total",
			Help: "Reservation engine operations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		LockAttemptsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_lock_attempts_total",
			Help: "Distributed lock acquisition attempts by result.",
		}, []string{"result"}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_events_published_total",
			Help: "Events handed to the broker by type and result.",
		}, []string{"event_type", "result"}),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ReservationsTotal,
		m.LockAttemptsTotal,
		m.EventsPublished,
	)
	return m
}

// Handler returns the exposition endpoint handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ReservationOutcome implements the engine's MetricsRecorder.
func (m *Metrics) ReservationOutcome(operation, outcome string) {
	m.ReservationsTotal.WithLabelValues(operation, outcome).Inc()
}
