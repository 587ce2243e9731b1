// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	// HTTP request metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Order lifecycle, labelled by the status an order entered
	OrdersTotal *prometheus.CounterVec

	// Rows removed by hierarchy deletes, labelled by kind
	CascadeDeletedRows *prometheus.CounterVec
}

// New builds the collectors on a private registry, so several instances
// (one per test router) never collide.
func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		OrdersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "orders_total",
				Help:      "Orders placed or moved to a status",
			},
			[]string{"status"},
		),
		CascadeDeletedRows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "hierarchy_deleted_rows_total",
				Help:      "Rows removed by vehicle hierarchy deletes",
			},
			[]string{"kind"},
		),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.OrdersTotal,
		m.CascadeDeletedRows,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, path, status string, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(elapsed.Seconds())
}

func (m *Metrics) RecordOrder(status string) {
	m.OrdersTotal.WithLabelValues(status).Inc()
}

// RecordCascade adds the per-kind counts of one hierarchy delete.
func (m *Metrics) RecordCascade(counts map[string]int64) {
	for kind, n := range counts {
		if n > 0 {
			m.CascadeDeletedRows.WithLabelValues(kind).Add(float64(n))
		}
	}
}
