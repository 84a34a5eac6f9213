// Package metrics exposes Prometheus instruments for the advisor API.
//
// A nil *Metrics is valid and records nothing, so services can be built
// without instrumentation in tests.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	defaultNamespace = "pathfinder"
	defaultSubsystem = "advisor"
)

// Backend call outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeEmpty   = "empty"
)

var defaultBuckets = []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000}

type Metrics struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	backendCalls        *prometheus.CounterVec
	backendCallDuration *prometheus.HistogramVec
	normalizerFailures  *prometheus.CounterVec
	catalogLookups      *prometheus.CounterVec
}

type Option func(*Metrics)

func WithNamespace(namespace string) Option {
	return func(m *Metrics) { m.namespace = namespace }
}

func WithSubsystem(subsystem string) Option {
	return func(m *Metrics) { m.subsystem = subsystem }
}

func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Metrics) { m.histogramBuckets = buckets }
}

// New registers every instrument on reg.
func New(reg prometheus.Registerer, opts ...Option) *Metrics {
	m := &Metrics{
		namespace:        defaultNamespace,
		subsystem:        defaultSubsystem,
		histogramBuckets: defaultBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(reg)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by route, method and status code",
	}, []string{"route", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"route", "method", "status_code"})

	m.backendCalls = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "backend_calls_total",
		Help:      "Generative backend calls by use case and outcome",
	}, []string{"use_case", "outcome"})

	m.backendCallDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "backend_call_duration_milliseconds",
		Help:      "Generative backend call latency in milliseconds, retries included",
		Buckets:   m.histogramBuckets,
	}, []string{"use_case"})

	m.normalizerFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "normalizer_failures_total",
		Help:      "Completions rejected by the response normalizer, by use case and kind",
	}, []string{"use_case", "kind"})

	m.catalogLookups = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_lookups_total",
		Help:      "Learning catalog retrievals by outcome",
	}, []string{"outcome"})

	return m
}

func (m *Metrics) RecordHTTPRequest(route, method, statusCode string, durationMs float64) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(route, method, statusCode).Observe(durationMs)
}

// RecordBackendCall counts one completion request. outcome is OutcomeSuccess,
// OutcomeEmpty, or a backend failure reason.
func (m *Metrics) RecordBackendCall(useCase, outcome string, durationMs float64) {
	if m == nil {
		return
	}
	m.backendCalls.WithLabelValues(useCase, outcome).Inc()
	m.backendCallDuration.WithLabelValues(useCase).Observe(durationMs)
}

func (m *Metrics) RecordNormalizerFailure(useCase, kind string) {
	if m == nil {
		return
	}
	m.normalizerFailures.WithLabelValues(useCase, kind).Inc()
}

func (m *Metrics) RecordCatalogLookup(outcome string) {
	if m == nil {
		return
	}
	m.catalogLookups.WithLabelValues(outcome).Inc()
}
