package perfmon

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"go-asset-cache/internal/events"
	"go-asset-cache/internal/models"
)

// Load-time anchors for the aggregate score: at or under fastLoadMs the
// load-time component is perfect, at slowLoadMs and beyond it is zero
const (
	fastLoadMs = 500.0
	slowLoadMs = 3000.0
)

// Stats is a read-only snapshot of observed performance
type Stats struct {
	SampleCount    int     `json:"sample_count"`
	CacheHits      uint64  `json:"cache_hits"`
	CacheMisses    uint64  `json:"cache_misses"`
	HitRatio       float64 `json:"hit_ratio"`
	AvgImageLoadMs float64 `json:"avg_image_load_ms"`
	Score          float64 `json:"score"`
}

// Monitor passively records load timings and cache effectiveness. It only
// consumes events; it never feeds anything back into the pipeline, so
// cache and prefetch decisions stay independent of observed performance.
type Monitor struct {
	mu         sync.Mutex
	maxSamples int
	samples    []models.LoadMetricSample
	hits       uint64
	misses     uint64
	logger     *zap.Logger
}

// NewMonitor creates a monitor retaining at most maxSamples samples
func NewMonitor(maxSamples int, logger *zap.Logger) *Monitor {
	return &Monitor{
		maxSamples: maxSamples,
		logger:     logger,
	}
}

// Record appends one sample, dropping the oldest once the cap is reached
func (m *Monitor) Record(kind models.MetricKind, value float64) error {
	if err := kind.Valid(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	sample := models.LoadMetricSample{Kind: kind, Value: value, Timestamp: time.Now()}
	if len(m.samples) >= m.maxSamples {
		copy(m.samples, m.samples[1:])
		m.samples[len(m.samples)-1] = sample
	} else {
		m.samples = append(m.samples, sample)
	}
	return nil
}

// Run consumes pipeline events until the context is cancelled. Intended to
// run in its own goroutine, started by the composition root.
func (m *Monitor) Run(ctx context.Context, bus *events.Bus) {
	hitCh := bus.Subscribe(events.TopicCacheHit, 64)
	missCh := bus.Subscribe(events.TopicCacheMiss, 64)
	loadCh := bus.Subscribe(events.TopicImageLoaded, 64)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hitCh:
			m.mu.Lock()
			m.hits++
			m.mu.Unlock()
		case <-missCh:
			m.mu.Lock()
			m.misses++
			m.mu.Unlock()
		case payload := <-loadCh:
			if loaded, ok := payload.(models.ImageLoadCompleted); ok {
				if err := m.Record(models.MetricImageLoad, float64(loaded.LoadTimeMs)); err != nil {
					m.logger.Warn("Failed to record load sample", zap.Error(err))
				}
			}
		}
	}
}

// Snapshot returns current aggregates
func (m *Monitor) Snapshot() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := Stats{
		SampleCount: len(m.samples),
		CacheHits:   m.hits,
		CacheMisses: m.misses,
	}

	if total := m.hits + m.misses; total > 0 {
		stats.HitRatio = float64(m.hits) / float64(total)
	}

	var loadSum float64
	var loadCount int
	for _, s := range m.samples {
		if s.Kind == models.MetricImageLoad {
			loadSum += s.Value
			loadCount++
		}
	}
	if loadCount > 0 {
		stats.AvgImageLoadMs = loadSum / float64(loadCount)
	}

	stats.Score = score(stats.HitRatio, stats.AvgImageLoadMs, loadCount > 0)
	return stats
}

// score weighs cache effectiveness against observed image load times on a
// 0-100 scale
func score(hitRatio, avgLoadMs float64, haveLoads bool) float64 {
	loadComponent := 1.0
	if haveLoads {
		switch {
		case avgLoadMs <= fastLoadMs:
			loadComponent = 1.0
		case avgLoadMs >= slowLoadMs:
			loadComponent = 0.0
		default:
			loadComponent = 1.0 - (avgLoadMs-fastLoadMs)/(slowLoadMs-fastLoadMs)
		}
	}

	return 100 * (0.6*hitRatio + 0.4*loadComponent)
}
