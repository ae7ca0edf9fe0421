package telemetry

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Form submission outcomes
const (
	OutcomeSuccess         = "success"
	OutcomeValidationError = "validation_error"
	OutcomeConflict        = "conflict"
	OutcomeStorageError    = "storage_error"
)

// MetricsRecorder is the subset of Metrics used by the HTTP layer
type MetricsRecorder interface {
	ObserveHTTPRequest(method, route string, status int, elapsed time.Duration)
	RecordFormSubmission(entity, operation, outcome string)
}

// Metrics holds the prometheus collectors exposed on /metrics
type Metrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	formSubmissions *prometheus.CounterVec
	registerer      prometheus.Registerer
}

// NewMetrics creates the collectors and registers them on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "invoicing_http_requests_total",
			Help: "Number of HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "invoicing_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		formSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "invoicing_form_submissions_total",
			Help: "Form submissions by entity, operation and outcome",
		}, []string{"entity", "operation", "outcome"}),
		registerer: reg,
	}

	reg.MustRegister(m.requests, m.requestDuration, m.formSubmissions)
	return m
}

// RegisterDB exposes connection pool statistics for db under dbName
func (m *Metrics) RegisterDB(db *sql.DB, dbName string) error {
	return m.registerer.Register(collectors.NewDBStatsCollector(db, dbName))
}

// ObserveHTTPRequest records one served request. Unmatched routes share a
// single label value to keep cardinality bounded.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordFormSubmission counts a create, update or delete attempt
func (m *Metrics) RecordFormSubmission(entity, operation, outcome string) {
	m.formSubmissions.WithLabelValues(entity, operation, outcome).Inc()
}

// MetricsHandler returns the prometheus scrape handler
func MetricsHandler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
