package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "task_tracker"

// Metrics holds the Prometheus collectors exposed on /metrics. Each server
// owns its registry so tests can build servers side by side.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	uploadsTotal    *prometheus.CounterVec
	uploadBytes     prometheus.Counter
	filesServed     prometheus.Counter
	rateLimited     *prometheus.CounterVec
}

func NewMetrics(version string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route and status code.",
		}, []string{"method", "route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		uploadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "task_history_uploads_total",
			Help:      "Task-history submissions by outcome.",
		}, []string{"result"}),
		uploadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "task_history_upload_bytes_total",
			Help:      "Bytes of documents stored with task-history records.",
		}),
		filesServed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "task_history_files_served_total",
			Help:      "Stored documents served.",
		}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter by bucket.",
		}, []string{"bucket"}),
	}

	info := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   metricsNamespace,
		Name:        "info",
		Help:        "Application version info.",
		ConstLabels: prometheus.Labels{"version": version},
	})
	info.Set(1)

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		info,
		m.requestsTotal,
		m.requestDuration,
		m.uploadsTotal,
		m.uploadBytes,
		m.filesServed,
		m.rateLimited,
	)
	return m
}

// MustRegister adds extra collectors, such as connection pool stats.
func (m *Metrics) MustRegister(cs ...prometheus.Collector) {
	m.registry.MustRegister(cs...)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordRequest records an HTTP request
func (m *Metrics) RecordRequest(method, route string, status int, d time.Duration) {
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordUpload records a stored task-history record and its document size.
func (m *Metrics) RecordUpload(bytes int) {
	m.uploadsTotal.WithLabelValues("stored").Inc()
	m.uploadBytes.Add(float64(bytes))
}

// RecordUploadRejected records a submission that failed a pipeline stage.
func (m *Metrics) RecordUploadRejected(reason string) {
	m.uploadsTotal.WithLabelValues(reason).Inc()
}

func (m *Metrics) RecordFileServed() {
	m.filesServed.Inc()
}

func (m *Metrics) RecordRateLimited(bucket string) {
	m.rateLimited.WithLabelValues(bucket).Inc()
}
