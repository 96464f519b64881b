package service

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/lithium-edu/exam-rooms-api/internal/models"
)

// Metrics exposes ingest and HTTP counters on the Prometheus registry.
type Metrics struct {
	uploads      *prometheus.CounterVec
	records      *prometheus.CounterVec
	rowErrs      prometheus.Counter
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewMetrics registers the ingest metrics with the registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		uploads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ingest_uploads_total",
			Help: "Processed uploads by file type and outcome.",
		}, []string{"type", "outcome"}),
		records: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ingest_records_total",
			Help: "Records written by file type and action.",
		}, []string{"type", "action"}),
		rowErrs: factory.NewCounter(prometheus.CounterOpts{
			Name: "ingest_row_errors_total",
			Help: "Rows skipped during ingest.",
		}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and path.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}

// ObserveHTTPRequest records one completed HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveUpload records one committed upload.
func (m *Metrics) ObserveUpload(summary *models.IngestSummary) {
	if m == nil || summary == nil {
		return
	}
	outcome := "handled"
	if !summary.Handled {
		outcome = "unhandled"
	}
	m.uploads.WithLabelValues(summary.Type, outcome).Inc()
	m.records.WithLabelValues(summary.Type, "created").Add(float64(summary.Created))
	m.records.WithLabelValues(summary.Type, "updated").Add(float64(summary.Updated))
	m.rowErrs.Add(float64(summary.Skipped))
}
