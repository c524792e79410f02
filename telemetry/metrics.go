package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects the Prometheus series netforge emits. Everything lives
// on a private registry so embedding programs keep their default registry
// untouched.
type Metrics struct {
	config MetricsConfig

	mutationsTotal   *prometheus.CounterVec
	mutationDuration *prometheus.HistogramVec
	stageDuration    *prometheus.HistogramVec
	conflictsTotal   *prometheus.CounterVec

	cacheInvalidationFailures prometheus.Counter
	cacheLookups              *prometheus.CounterVec

	apiRequests   *prometheus.CounterVec
	apiDuration   *prometheus.HistogramVec
	rateLimitWait prometheus.Histogram

	registry *prometheus.Registry
}

// NewMetrics builds the collector. Collection works regardless of
// cfg.Enabled; that flag only gates the HTTP listener.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "netforge"
	}
	buckets := cfg.Buckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		mutationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mutations_total",
				Help:      "Mutation attempts by kind and terminal status",
			},
			[]string{"kind", "status"},
		),
		mutationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "mutation_duration_seconds",
				Help:      "End-to-end mutation latency by kind",
				Buckets:   buckets,
			},
			[]string{"kind"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stage_duration_seconds",
				Help:      "Pipeline stage latency",
				Buckets:   buckets,
			},
			[]string{"stage"},
		),
		conflictsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "conflicts_total",
				Help:      "Mutations refused because a record already existed",
			},
			[]string{"kind"},
		),

		cacheInvalidationFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_invalidation_failures_total",
				Help:      "Cache invalidations that failed after a successful write",
			},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Read cache lookups by outcome (hit, miss, bypass)",
			},
			[]string{"outcome"},
		),

		apiRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_requests_total",
				Help:      "NetBox API requests by method and status code",
			},
			[]string{"method", "status"},
		),
		apiDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "api_request_duration_seconds",
				Help:      "NetBox API request latency by method",
				Buckets:   buckets,
			},
			[]string{"method"},
		),
		rateLimitWait: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "rate_limit_wait_seconds",
				Help:      "Time spent waiting on the client-side rate limiter",
				Buckets:   buckets,
			},
		),
	}

	registry.MustRegister(
		m.mutationsTotal,
		m.mutationDuration,
		m.stageDuration,
		m.conflictsTotal,
		m.cacheInvalidationFailures,
		m.cacheLookups,
		m.apiRequests,
		m.apiDuration,
		m.rateLimitWait,
	)

	return m, nil
}

// RecordMutation records a finished mutation attempt.
func (m *Metrics) RecordMutation(kind, status string, duration time.Duration) {
	if m == nil || m.mutationsTotal == nil {
		return
	}
	m.mutationsTotal.WithLabelValues(kind, status).Inc()
	m.mutationDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordStage records the latency of one pipeline stage.
func (m *Metrics) RecordStage(stage string, duration time.Duration) {
	if m == nil || m.stageDuration == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordConflict counts a refused duplicate.
func (m *Metrics) RecordConflict(kind string) {
	if m == nil || m.conflictsTotal == nil {
		return
	}
	m.conflictsTotal.WithLabelValues(kind).Inc()
}

// RecordCacheInvalidationFailure counts a swallowed invalidation failure.
func (m *Metrics) RecordCacheInvalidationFailure() {
	if m == nil || m.cacheInvalidationFailures == nil {
		return
	}
	m.cacheInvalidationFailures.Inc()
}

// RecordCacheLookup counts one cache decision (hit, miss, bypass).
func (m *Metrics) RecordCacheLookup(outcome string) {
	if m == nil || m.cacheLookups == nil {
		return
	}
	m.cacheLookups.WithLabelValues(outcome).Inc()
}

// RecordAPIRequest records one upstream HTTP exchange.
func (m *Metrics) RecordAPIRequest(method, status string, duration time.Duration) {
	if m == nil || m.apiRequests == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, status).Inc()
	m.apiDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordRateLimitWait records time spent blocked on the limiter.
func (m *Metrics) RecordRateLimitWait(duration time.Duration) {
	if m == nil || m.rateLimitWait == nil {
		return
	}
	m.rateLimitWait.Observe(duration.Seconds())
}

// Timer measures one operation for histogram observation.
type Timer struct {
	start time.Time
}

func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Handler serves the private registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// StartServer exposes the metrics endpoint when the config enables it. The
// listener runs until the process exits; scrape failures never affect the
// work the process is doing.
func (m *Metrics) StartServer(log *Logger) {
	if m == nil || !m.config.Enabled {
		return
	}

	path := m.config.Path
	if path == "" {
		path = "/metrics"
	}
	mux := http.NewServeMux()
	mux.Handle(path, m.Handler())

	server := &http.Server{
		Addr:              m.config.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if log != nil {
				log.WithErr(err).Warn("metrics listener stopped")
			}
		}
	}()
}
