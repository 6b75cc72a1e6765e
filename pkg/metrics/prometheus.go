// Package metrics provides Prometheus metrics for the AIMS import service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Import pipeline metrics
	importsSubmitted prometheus.Counter
	importsDuplicate prometheus.Counter
	importsCompleted prometheus.Counter
	parseErrors      *prometheus.CounterVec
	extractLatency   prometheus.Histogram

	// Validation metrics
	codeCheckFailures *prometheus.CounterVec
	allocationChecks  *prometheus.CounterVec

	// Aggregation metrics
	aggregationsComputed prometheus.Counter

	// Queue metrics
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueueErrors prometheus.Counter

	// Worker metrics
	workerCount  prometheus.Gauge
	workerErrors prometheus.Counter

	// Store metrics
	activitiesStored prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// GetRegistry returns the registry backing the global manager, for exposure
// via promhttp.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// NewManager creates a new metrics manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "aims",
		subsystem:        "import",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.importsSubmitted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "submissions_total",
		Help:      "Total number of import jobs submitted",
	})

	m.importsDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "submissions_duplicate_total",
		Help:      "Total number of duplicate import submissions rejected",
	})

	m.importsCompleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "completed_total",
		Help:      "Total number of import jobs that produced stored metadata",
	})

	m.parseErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "parse_errors_total",
			Help:      "Total number of report parse failures by error kind",
		},
		[]string{"kind"},
	)

	m.extractLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "extract_latency_milliseconds",
		Help:      "Histogram of metadata extraction latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.codeCheckFailures = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "code_check_failures_total",
			Help:      "Total number of code-list membership failures by category",
		},
		[]string{"category"},
	)

	m.allocationChecks = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "allocation_checks_total",
			Help:      "Total number of percentage-allocation checks by outcome",
		},
		[]string{"outcome"},
	)

	m.aggregationsComputed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sector_aggregations_total",
		Help:      "Total number of sector aggregations computed",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Current size of the import job queue",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Configured capacity of the import job queue",
	})

	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_utilization_ratio",
		Help:      "Queue utilization ratio (size / capacity)",
	})

	m.queueEnqueueErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueue_errors_total",
		Help:      "Total number of failed enqueue attempts",
	})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_count",
		Help:      "Current number of import workers",
	})

	m.workerErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_errors_total",
		Help:      "Total number of worker processing errors",
	})

	m.activitiesStored = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "activities_stored",
		Help:      "Number of activities currently held in the store",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// Package-level helpers against the global manager.

// RecordImportSubmitted increments the submissions counter.
func RecordImportSubmitted() {
	globalManager.importsSubmitted.Inc()
}

// RecordImportDuplicate increments the duplicate-submission counter.
func RecordImportDuplicate() {
	globalManager.importsDuplicate.Inc()
}

// RecordImportCompleted increments the completed-import counter.
func RecordImportCompleted() {
	globalManager.importsCompleted.Inc()
}

// RecordParseError increments the parse-error counter for a kind.
func RecordParseError(kind string) {
	globalManager.parseErrors.WithLabelValues(kind).Inc()
}

// RecordExtractLatency observes a metadata extraction latency sample.
func RecordExtractLatency(latencyMs float64) {
	globalManager.extractLatency.Observe(latencyMs)
}

// RecordCodeCheckFailure increments the code-check failure counter.
func RecordCodeCheckFailure(category string) {
	globalManager.codeCheckFailures.WithLabelValues(category).Inc()
}

// RecordAllocationCheck increments the allocation-check counter by outcome.
func RecordAllocationCheck(valid bool) {
	outcome := "valid"
	if !valid {
		outcome = "invalid"
	}
	globalManager.allocationChecks.WithLabelValues(outcome).Inc()
}

// RecordAggregation increments the sector-aggregation counter.
func RecordAggregation() {
	globalManager.aggregationsComputed.Inc()
}

// UpdateQueueSize sets the current queue size gauge.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity gauge.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization gauge.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerCount sets the worker count gauge.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// UpdateActivitiesStored sets the stored-activities gauge.
func UpdateActivitiesStored(count int) {
	globalManager.activitiesStored.Set(float64(count))
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes an HTTP request duration sample.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}
