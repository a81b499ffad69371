package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of one service instance. Each instance owns
// its registry, so several apps (as in tests) can coexist in one process.
type Metrics struct {
	registry    *prometheus.Registry
	Requests    *prometheus.CounterVec
	LatencyMS   *prometheus.HistogramVec
	Placements  *prometheus.CounterVec
	PlacementMS prometheus.Histogram
}

// New creates and registers the collectors under namespace.
func New(namespace string) *Metrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"route", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"route"})
	placements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_placements_total",
		Help:      "Order placements by outcome.",
	}, []string{"outcome"})
	placementMS := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "order_placement_duration_ms",
		Help:      "Order placement latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(requests, latency, placements, placementMS)
	return &Metrics{
		registry:    reg,
		Requests:    requests,
		LatencyMS:   latency,
		Placements:  placements,
		PlacementMS: placementMS,
	}
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(route, status string, took time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(route, status).Inc()
	m.LatencyMS.WithLabelValues(route).Observe(float64(took.Milliseconds()))
}

// ObservePlacement records one order placement attempt.
func (m *Metrics) ObservePlacement(outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.Placements.WithLabelValues(outcome).Inc()
	m.PlacementMS.Observe(float64(took.Milliseconds()))
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
