// Package metrics provides Prometheus metrics for the staffboard service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the staffboard service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Cache Metrics - request cache effectiveness
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter
	cacheSharedFlights prometheus.Counter
	cacheEntries       prometheus.Gauge
	cacheSubscribers   prometheus.Gauge
	cacheInvalidations *prometheus.CounterVec
	cacheRefetches     *prometheus.CounterVec
	cacheEvictions     prometheus.Counter
	cacheMutations     *prometheus.CounterVec
	cacheDiscarded     prometheus.Counter

	// Transport Metrics - remote API calls
	transportRequests *prometheus.CounterVec
	transportLatency  *prometheus.HistogramVec
	transportErrors   *prometheus.CounterVec

	// Aggregation Metrics
	aggregationLatency *prometheus.HistogramVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Queue Metrics - background refetch queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueueRate   prometheus.Counter
	queueDequeueRate   prometheus.Counter
	queueEnqueueErrors prometheus.Counter
	queueCoalesced     prometheus.Counter

	// Worker Metrics - refetch workers
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Error Metrics - detailed error tracking
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "staffboard",
		subsystem:        "core",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	constLabels := prometheus.Labels(m.customLabels)

	counter := func(name, help string) prometheus.Counter {
		return auto.NewCounter(prometheus.CounterOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: constLabels,
		})
	}
	gauge := func(name, help string) prometheus.Gauge {
		return auto.NewGauge(prometheus.GaugeOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: constLabels,
		})
	}
	histogram := func(name, help string) prometheus.Histogram {
		return auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: constLabels,
			Buckets: m.histogramBuckets,
		})
	}
	counterVec := func(name, help string, labels ...string) *prometheus.CounterVec {
		return auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: constLabels,
		}, labels)
	}
	histogramVec := func(name, help string, labels ...string) *prometheus.HistogramVec {
		return auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: constLabels,
			Buckets: m.histogramBuckets,
		}, labels)
	}

	// Cache
	m.cacheHits = counter("cache_hits_total", "Queries answered from an existing cache entry")
	m.cacheMisses = counter("cache_misses_total", "Queries that created a new cache entry")
	m.cacheSharedFlights = counter("cache_shared_flights_total", "Fetches that joined an in-flight request for the same key")
	m.cacheEntries = gauge("cache_entries", "Current number of cache entries")
	m.cacheSubscribers = gauge("cache_subscribers", "Current number of live subscriptions")
	m.cacheInvalidations = counterVec("cache_invalidations_total", "Entries marked stale by mutations, by tag type", "tag_type")
	m.cacheRefetches = counterVec("cache_refetches_total", "Refetches issued, by reason", "reason")
	m.cacheEvictions = counter("cache_evictions_total", "Entries evicted after the unused grace period")
	m.cacheMutations = counterVec("cache_mutations_total", "Mutations issued, by method and outcome", "method", "outcome")
	m.cacheDiscarded = counter("cache_discarded_results_total", "Fetch results dropped because a newer request already resolved")

	// Transport
	m.transportRequests = counterVec("transport_requests_total", "Remote API requests by method and status", "method", "status_code")
	m.transportLatency = histogramVec("transport_latency_milliseconds", "Remote API latency in milliseconds", "method")
	m.transportErrors = counterVec("transport_errors_total", "Remote API failures by kind", "kind")

	// Aggregation
	m.aggregationLatency = histogramVec("aggregation_latency_milliseconds", "Analytics view computation latency in milliseconds", "view")

	// HTTP
	m.httpRequests = counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", "endpoint", "method", "status_code")

	// Queue
	m.queueSize = gauge("refetch_queue_size", "Current size of the refetch queue")
	m.queueCapacity = gauge("refetch_queue_capacity", "Maximum capacity of the refetch queue")
	m.queueUtilization = gauge("refetch_queue_utilization_ratio", "Refetch queue utilization ratio (0-1)")
	m.queueEnqueueRate = counter("refetch_queue_enqueue_total", "Jobs enqueued for refetch")
	m.queueDequeueRate = counter("refetch_queue_dequeue_total", "Jobs dequeued for refetch")
	m.queueEnqueueErrors = counter("refetch_queue_enqueue_errors_total", "Refetch jobs rejected by the queue")
	m.queueCoalesced = counter("refetch_queue_coalesced_total", "Refetch jobs skipped because the key was already pending")

	// Worker
	m.workerCount = gauge("refetch_worker_count", "Number of refetch workers")
	m.workerProcessingLatency = histogram("refetch_worker_latency_milliseconds", "Refetch job processing latency in milliseconds")
	m.workerErrors = counter("refetch_worker_errors_total", "Refetch jobs that failed")

	// Errors
	m.errorRateByComponent = counterVec("errors_by_component_total", "Errors by component and type", "component", "error_type")
	m.errorRateByEndpoint = counterVec("errors_by_endpoint_total", "Errors by endpoint, method and type", "endpoint", "method", "error_type")

	// System
	m.systemMemoryUsage = gauge("system_memory_bytes", "Allocated heap memory in bytes")
	m.systemGoroutineCount = gauge("system_goroutines", "Current number of goroutines")
	m.systemGCPauseTime = histogram("system_gc_pause_milliseconds", "Average GC pause time in milliseconds")
}

// Cache Metrics Functions.

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() { globalManager.cacheHits.Inc() }

// RecordCacheMiss increments the cache miss counter.
func RecordCacheMiss() { globalManager.cacheMisses.Inc() }

// RecordSharedFlight counts a fetch that joined an in-flight request.
func RecordSharedFlight() { globalManager.cacheSharedFlights.Inc() }

// UpdateCacheEntries sets the number of cache entries.
func UpdateCacheEntries(count int) { globalManager.cacheEntries.Set(float64(count)) }

// UpdateCacheSubscribers sets the number of live subscriptions.
func UpdateCacheSubscribers(count int) { globalManager.cacheSubscribers.Set(float64(count)) }

// RecordInvalidation counts an entry marked stale through a tag of tagType.
func RecordInvalidation(tagType string) {
	globalManager.cacheInvalidations.WithLabelValues(tagType).Inc()
}

// RecordRefetch counts a refetch issued for reason (stale, error, invalidated, manual).
func RecordRefetch(reason string) { globalManager.cacheRefetches.WithLabelValues(reason).Inc() }

// RecordEviction increments the eviction counter.
func RecordEviction() { globalManager.cacheEvictions.Inc() }

// RecordMutation counts a mutation by method and outcome (ok, error).
func RecordMutation(method, outcome string) {
	globalManager.cacheMutations.WithLabelValues(method, outcome).Inc()
}

// RecordDiscardedResult counts a superseded fetch result.
func RecordDiscardedResult() { globalManager.cacheDiscarded.Inc() }

// Transport Metrics Functions.

// RecordTransportRequest counts a remote API request.
func RecordTransportRequest(method, statusCode string) {
	globalManager.transportRequests.WithLabelValues(method, statusCode).Inc()
}

// RecordTransportLatency records remote API latency.
func RecordTransportLatency(method string, latencyMs float64) {
	globalManager.transportLatency.WithLabelValues(method).Observe(latencyMs)
}

// RecordTransportError counts a remote API failure by kind.
func RecordTransportError(kind string) { globalManager.transportErrors.WithLabelValues(kind).Inc() }

// RecordAggregationLatency records how long an analytics view took to compute.
func RecordAggregationLatency(view string, latencyMs float64) {
	globalManager.aggregationLatency.WithLabelValues(view).Observe(latencyMs)
}

// HTTP Metrics Functions.

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Queue Metrics Functions.

// UpdateQueueSize sets the current refetch queue size.
func UpdateQueueSize(size int) { globalManager.queueSize.Set(float64(size)) }

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) { globalManager.queueUtilization.Set(utilization) }

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() { globalManager.queueEnqueueRate.Inc() }

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() { globalManager.queueDequeueRate.Inc() }

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() { globalManager.queueEnqueueErrors.Inc() }

// RecordQueueCoalesced counts a refetch skipped because one is already pending.
func RecordQueueCoalesced() { globalManager.queueCoalesced.Inc() }

// Worker Metrics Functions.

// UpdateWorkerCount sets the number of refetch workers.
func UpdateWorkerCount(count int) { globalManager.workerCount.Set(float64(count)) }

// RecordWorkerProcessingLatency records refetch job latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() { globalManager.workerErrors.Inc() }

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) { globalManager.systemGCPauseTime.Observe(pauseMs) }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// SinceMs returns the elapsed milliseconds since start as a float.
func SinceMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
