package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all application collectors
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// WebSocket metrics
	WebSocketActiveConnections prometheus.Gauge
	WebSocketDroppedTotal      prometheus.Counter

	// Snapshot metrics
	SnapshotsPublishedTotal prometheus.Counter

	// Store metrics
	StoreErrorsTotal *prometheus.CounterVec
}

// Global metrics instance
var instance *Metrics
var once sync.Once

// Get returns the singleton metrics instance
func Get() *Metrics {
	once.Do(func() {
		instance = New()
	})
	return instance
}

// New creates a Metrics set registered on its own registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qoe_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "status"},
		),

		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "qoe_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),

		WebSocketActiveConnections: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "qoe_websocket_active_connections",
				Help: "Number of connected dashboard clients",
			},
		),

		WebSocketDroppedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "qoe_websocket_dropped_total",
				Help: "Clients dropped because their send buffer was full",
			},
		),

		SnapshotsPublishedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "qoe_snapshots_published_total",
				Help: "Total number of dashboard snapshots broadcast",
			},
		),

		StoreErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qoe_store_errors_total",
				Help: "Total number of failed store reads and writes",
			},
			[]string{"operation"}, // e.g. "reports", "seed"
		),
	}

	m.registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.WebSocketActiveConnections,
		m.WebSocketDroppedTotal,
		m.SnapshotsPublishedTotal,
		m.StoreErrorsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler returns an HTTP handler for the /metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
