// Package metrics provides Prometheus metrics for the lead scoring service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prediction outcomes that are not errors.
const (
	OutcomeScored    = "scored"
	OutcomeDuplicate = "duplicate"
)

// scoreBuckets spans the 0-100 score range in steps of ten.
var scoreBuckets = prometheus.LinearBuckets(10, 10, 10)

// Manager owns the service's collectors and the registry they live on.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	predictions        *prometheus.CounterVec
	predictionDuration prometheus.Histogram
	scores             prometheus.Histogram
	cacheLookups       *prometheus.CounterVec

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithHistogramBuckets sets custom buckets for latency histograms.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// WithRegistry registers the metrics on registry instead of a fresh one.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// NewManager creates the metrics. Without WithRegistry a private registry
// with the Go and process collectors is used.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "leadscore",
		histogramBuckets: prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.predictions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "predict",
		Name:      "requests_total",
		Help:      "Prediction requests by outcome (scored, duplicate or error kind)",
	}, []string{"outcome"})

	m.predictionDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "predict",
		Name:      "duration_seconds",
		Help:      "Time spent in the scoring pipeline",
		Buckets:   m.histogramBuckets,
	})

	m.scores = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "predict",
		Name:      "score",
		Help:      "Distribution of issued lead scores",
		Buckets:   scoreBuckets,
	})

	m.cacheLookups = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Known-lead cache lookups by result (hit, miss, error)",
	}, []string{"result"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and route",
		Buckets:   m.histogramBuckets,
	}, []string{"method", "route"})
}

// ObservePrediction records one pipeline run.
func (m *Manager) ObservePrediction(outcome string, elapsed time.Duration) {
	m.predictions.WithLabelValues(outcome).Inc()
	m.predictionDuration.Observe(elapsed.Seconds())
}

// ObserveScore records an issued score.
func (m *Manager) ObserveScore(score float64) {
	m.scores.Observe(score)
}

// ObserveCacheLookup records a known-lead cache lookup.
func (m *Manager) ObserveCacheLookup(result string) {
	m.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveHTTPRequest records a served request.
func (m *Manager) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Registry returns the registry the metrics are registered on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
