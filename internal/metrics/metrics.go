// Package metrics exposes the dashboard's prometheus collectors behind a
// dedicated registry, served from the admin listener.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds every collector the dashboard reports.
type Metrics struct {
	registry *prometheus.Registry

	refreshDuration prometheus.Histogram
	refreshTotal    *prometheus.CounterVec
	quarantinedRows prometheus.Counter
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	httpDuration    *prometheus.HistogramVec
}

// New builds the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.refreshDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "stockboard_refresh_duration_seconds",
		Help:    "Time taken to reload the dataset and rebuild the snapshot",
		Buckets: prometheus.DefBuckets,
	})

	m.refreshTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stockboard_refresh_total",
		Help: "Refresh attempts by result",
	}, []string{"result"})

	m.quarantinedRows = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stockboard_quarantined_rows_total",
		Help: "Input rows skipped by validation",
	})

	m.cacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stockboard_cache_hits_total",
		Help: "Response cache hits",
	})

	m.cacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stockboard_cache_misses_total",
		Help: "Response cache misses",
	})

	m.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stockboard_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	collectors := []prometheus.Collector{
		m.refreshDuration,
		m.refreshTotal,
		m.quarantinedRows,
		m.cacheHits,
		m.cacheMisses,
		m.httpDuration,
	}
	for _, c := range collectors {
		m.registry.MustRegister(c)
	}

	return m
}

// Registry returns the registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRefresh records one refresh attempt.
func (m *Metrics) ObserveRefresh(d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.refreshTotal.WithLabelValues(result).Inc()
	if err == nil {
		m.refreshDuration.Observe(d.Seconds())
	}
}

// AddQuarantined counts rows rejected by input validation.
func (m *Metrics) AddQuarantined(n int) {
	if n > 0 {
		m.quarantinedRows.Add(float64(n))
	}
}

// CacheHit counts a response served from the cache.
func (m *Metrics) CacheHit() {
	m.cacheHits.Inc()
}

// CacheMiss counts a response that had to be computed.
func (m *Metrics) CacheMiss() {
	m.cacheMisses.Inc()
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, path string, status int, d time.Duration) {
	m.httpDuration.WithLabelValues(method, path, strconv.Itoa(status)).Observe(d.Seconds())
}
