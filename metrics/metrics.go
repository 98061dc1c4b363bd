// Package metrics exposes Prometheus collectors for the prediction API.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal      *prometheus.CounterVec   // labels: route, status
	PredictionDuration *prometheus.HistogramVec // labels: asset_class
	UpstreamFailures   *prometheus.CounterVec   // labels: source
	SupersededTotal    prometheus.Counter
	SignalsTotal       *prometheus.CounterVec // labels: signal
}

// NewMetrics registers every collector on a private registry so tests can
// build as many instances as they like.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "quantmind"
	}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code",
		}, []string{"route", "status"}),
		PredictionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prediction_duration_seconds",
			Help:      "Time to build a prediction bundle, upstream calls included",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"asset_class"}),
		UpstreamFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_failures_total",
			Help:      "Failed calls to market data or forecast sources",
		}, []string{"source"}),
		SupersededTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "superseded_requests_total",
			Help:      "Responses discarded because a newer request for the same ticker arrived",
		}),
		SignalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signals_total",
			Help:      "Signals served, by label",
		}, []string{"signal"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestsTotal,
		m.PredictionDuration,
		m.UpstreamFailures,
		m.SupersededTotal,
		m.SignalsTotal,
	)
	return m
}

// ObserveRequest counts one finished HTTP request.
func (m *Metrics) ObserveRequest(route string, status int) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// ObservePrediction records how long one bundle took.
func (m *Metrics) ObservePrediction(assetClass string, seconds float64) {
	if m == nil {
		return
	}
	m.PredictionDuration.WithLabelValues(assetClass).Observe(seconds)
}

// UpstreamFailed counts a failed provider or model call.
func (m *Metrics) UpstreamFailed(source string) {
	if m == nil {
		return
	}
	m.UpstreamFailures.WithLabelValues(source).Inc()
}

// Superseded counts a discarded stale response.
func (m *Metrics) Superseded() {
	if m == nil {
		return
	}
	m.SupersededTotal.Inc()
}

// SignalServed counts a delivered signal label.
func (m *Metrics) SignalServed(signal string) {
	if m == nil || signal == "" {
		return
	}
	m.SignalsTotal.WithLabelValues(signal).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
