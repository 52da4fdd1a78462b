package infra

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Calculation outcomes recorded by Metrics.RecordCalculation.
const (
	OutcomeOK               = "ok"
	OutcomeValidationError  = "validation_error"
	OutcomeCalculationError = "calculation_error"
	OutcomeFetchError       = "fetch_error"
)

// Metrics holds the Prometheus collectors of the service.
type Metrics struct {
	registry *prometheus.Registry

	calculations  *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	fetchErrors   prometheus.Counter
	requests      *prometheus.CounterVec
	requestTime   *prometheus.HistogramVec
}

// NewMetrics creates collectors on a private registry, including Go runtime
// and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "minecalc",
			Name:      "calculations_total",
			Help:      "Profitability calculations by outcome.",
		}, []string{"outcome"}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "minecalc",
			Name:      "network_fetch_duration_seconds",
			Help:      "Latency of network statistics fetches, retries included.",
			Buckets:   prometheus.DefBuckets,
		}),
		fetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "minecalc",
			Name:      "network_fetch_errors_total",
			Help:      "Network statistics fetches that failed after all retries.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "minecalc",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		requestTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "minecalc",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		m.calculations,
		m.fetchDuration,
		m.fetchErrors,
		m.requests,
		m.requestTime,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RecordCalculation counts one calculation with the given outcome.
func (m *Metrics) RecordCalculation(outcome string) {
	m.calculations.WithLabelValues(outcome).Inc()
}

// RecordFetch records one network fetch and whether it failed.
func (m *Metrics) RecordFetch(elapsed time.Duration, err error) {
	m.fetchDuration.Observe(elapsed.Seconds())
	if err != nil {
		m.fetchErrors.Inc()
	}
}

// RecordRequest records one served HTTP request.
func (m *Metrics) RecordRequest(method, route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestTime.WithLabelValues(route).Observe(elapsed.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
