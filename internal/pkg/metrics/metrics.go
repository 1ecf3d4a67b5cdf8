package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "orderops"

// Metrics groups the collectors exported by the service.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests  *prometheus.CounterVec
	HTTPLatencyMS *prometheus.HistogramVec

	BulkCommands  *prometheus.CounterVec
	OrderOutcomes *prometheus.CounterVec
	Exports       *prometheus.CounterVec
	Notifications *prometheus.CounterVec
	OutboxEvents  *prometheus.CounterVec
}

// New registers all collectors on a dedicated registry so tests can build as
// many instances as they need.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		HTTPLatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"method", "path"}),
		BulkCommands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bulk_commands_total",
			Help:      "Bulk commands dispatched, by command identifier.",
		}, []string{"command"}),
		OrderOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bulk_command_order_outcomes_total",
			Help:      "Per-order outcomes of bulk commands, by command and reason.",
		}, []string{"command", "reason"}),
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Generated exports, by kind and result.",
		}, []string{"kind", "result"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_wait_notifications_total",
			Help:      "Stock-wait notification delivery attempts, by resulting status.",
		}, []string{"status"}),
		OutboxEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_total",
			Help:      "Outbox events relayed, by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.HTTPRequests, m.HTTPLatencyMS,
		m.BulkCommands, m.OrderOutcomes, m.Exports, m.Notifications, m.OutboxEvents,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
