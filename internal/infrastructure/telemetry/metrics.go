package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Backend labels
const (
	BackendReal = "real"
	BackendMock = "mock"
)

// Outcome labels
const (
	OutcomeOK             = "ok"
	OutcomeAPIError       = "api_error"
	OutcomeTransportError = "transport_error"
	OutcomeNotFound       = "not_found"
)

// DispatchMetrics counts dispatched calls per backend, method and outcome.
// A nil *DispatchMetrics is valid and records nothing.
type DispatchMetrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewDispatchMetrics registers the dispatch collectors on a private registry
func NewDispatchMetrics(namespace string) *DispatchMetrics {
	if namespace == "" {
		namespace = "erp_client"
	}
	m := &DispatchMetrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_requests_total",
			Help:      "Total number of dispatched API calls.",
		}, []string{"backend", "method", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_duration_seconds",
			Help:      "Latency of dispatched API calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"backend", "method"}),
	}
	m.registry.MustRegister(m.requests, m.duration)
	return m
}

// Observe records one completed call
func (m *DispatchMetrics) Observe(backend, method, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(backend, method, outcome).Inc()
	m.duration.WithLabelValues(backend, method).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry, mainly for tests
func (m *DispatchMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in Prometheus text format
func (m *DispatchMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
