package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Core request/hit/miss counters
	AssetRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_requests_total",
			Help: "Total number of requests routed through the cache router",
		},
		[]string{"class"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"class", "level"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"class"},
	)

	StaleServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_cache_stale_served_total",
			Help: "Responses served from stale cache entries after a network failure",
		},
		[]string{"class"},
	)

	PlaceholdersSynthesized = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "asset_placeholders_synthesized_total",
			Help: "Placeholder responses fabricated for failed image fetches with no cached fallback",
		},
	)

	BackgroundRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_background_refreshes_total",
			Help: "Fire-and-forget revalidation fetches for static resources",
		},
		[]string{"result"},
	)

	PrefetchIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "asset_prefetch_issued_total",
			Help: "Speculative prefetch requests issued",
		},
	)

	PrefetchSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_prefetch_skipped_total",
			Help: "Prefetch passes skipped entirely",
		},
		[]string{"reason"},
	)

	WarmerPasses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_warmer_passes_total",
			Help: "Cache warmer passes by phase",
		},
		[]string{"phase"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_cache_errors_total",
			Help: "Cache store errors by level and kind",
		},
		[]string{"level", "kind"},
	)

	// Get operation latency only
	CacheOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "asset_cache_operation_duration_seconds",
			Help:    "Duration of cache get operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "class"},
	)

	// Memory store capacity gauges
	StoreCapacity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "asset_store_capacity_bytes",
			Help: "Memory store capacity in bytes",
		},
		[]string{"class"},
	)

	StoreUsed = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "asset_store_used_bytes",
			Help: "Memory store used space in bytes",
		},
		[]string{"class"},
	)
)

// RecordRequest records a routed request
func RecordRequest(class string) {
	AssetRequests.WithLabelValues(class).Inc()
}

// RecordCacheHit records a cache hit at the given store level
func RecordCacheHit(class, level string) {
	CacheHits.WithLabelValues(class, level).Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss(class string) {
	CacheMisses.WithLabelValues(class).Inc()
}

// RecordStaleServed records a stale entry served after a network failure
func RecordStaleServed(class string) {
	StaleServed.WithLabelValues(class).Inc()
}

// RecordPlaceholder records a synthesized placeholder response
func RecordPlaceholder() {
	PlaceholdersSynthesized.Inc()
}

// RecordBackgroundRefresh records the outcome of a background revalidation
func RecordBackgroundRefresh(result string) {
	BackgroundRefreshes.WithLabelValues(result).Inc()
}

// RecordPrefetchIssued records one speculative prefetch request
func RecordPrefetchIssued() {
	PrefetchIssued.Inc()
}

// RecordPrefetchSkipped records a prefetch pass skipped entirely
func RecordPrefetchSkipped(reason string) {
	PrefetchSkipped.WithLabelValues(reason).Inc()
}

// RecordWarmerPass records a completed warmer phase
func RecordWarmerPass(phase string) {
	WarmerPasses.WithLabelValues(phase).Inc()
}

// RecordCacheError records a cache store error
func RecordCacheError(level, kind string) {
	CacheErrors.WithLabelValues(level, kind).Inc()
}

// UpdateStoreCapacity updates memory store capacity metrics for a class
func UpdateStoreCapacity(class string, capacity, used int64) {
	StoreCapacity.WithLabelValues(class).Set(float64(capacity))
	StoreUsed.WithLabelValues(class).Set(float64(used))
}

// TimeCacheGetOperation returns a timer function for measuring cache get operation duration
func TimeCacheGetOperation(class string) func() {
	timer := prometheus.NewTimer(CacheOperationDuration.WithLabelValues("get", class))
	return func() {
		timer.ObserveDuration()
	}
}
