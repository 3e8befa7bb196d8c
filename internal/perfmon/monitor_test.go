package perfmon

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-asset-cache/internal/events"
	"go-asset-cache/internal/models"
)

func TestRecord_ValidKinds(t *testing.T) {
	m := NewMonitor(10, zap.NewNop())

	for _, kind := range []models.MetricKind{models.MetricLCP, models.MetricFID, models.MetricCLS, models.MetricImageLoad} {
		assert.NoError(t, m.Record(kind, 100))
	}

	assert.Equal(t, 4, m.Snapshot().SampleCount)
}

func TestRecord_UnknownKindRejected(t *testing.T) {
	m := NewMonitor(10, zap.NewNop())

	err := m.Record("bogus", 100)

	assert.Error(t, err)
	assert.Equal(t, 0, m.Snapshot().SampleCount)
}

func TestRecord_CapDropsOldest(t *testing.T) {
	m := NewMonitor(1000, zap.NewNop())

	for i := 0; i < 1100; i++ {
		require.NoError(t, m.Record(models.MetricImageLoad, float64(i)))
	}

	stats := m.Snapshot()
	assert.Equal(t, 1000, stats.SampleCount)

	// The surviving window is the most recent samples: 100..1099
	expectedAvg := float64(100+1099) / 2
	assert.InDelta(t, expectedAvg, stats.AvgImageLoadMs, 0.01)
}

func TestSnapshot_HitRatio(t *testing.T) {
	m := NewMonitor(10, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := events.NewBus(zap.NewNop())
	go m.Run(ctx, bus)

	// Give the consumer a moment to subscribe before publishing
	time.Sleep(20 * time.Millisecond)

	for i := 0; i < 3; i++ {
		bus.Publish(events.TopicCacheHit, models.CacheSignal{URL: "/a", Class: models.ClassImage, Level: "memory"})
	}
	bus.Publish(events.TopicCacheMiss, models.CacheSignal{URL: "/b", Class: models.ClassImage})

	assert.Eventually(t, func() bool {
		stats := m.Snapshot()
		return stats.CacheHits == 3 && stats.CacheMisses == 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.InDelta(t, 0.75, m.Snapshot().HitRatio, 0.001)
}

func TestRun_ConsumesImageLoadEvents(t *testing.T) {
	m := NewMonitor(10, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := events.NewBus(zap.NewNop())
	go m.Run(ctx, bus)
	time.Sleep(20 * time.Millisecond)

	bus.Publish(events.TopicImageLoaded, models.ImageLoadCompleted{URL: "/img.jpg", LoadTimeMs: 800})

	assert.Eventually(t, func() bool {
		return m.Snapshot().SampleCount == 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.InDelta(t, 800, m.Snapshot().AvgImageLoadMs, 0.001)
}

func TestSnapshot_EmptyMonitor(t *testing.T) {
	m := NewMonitor(10, zap.NewNop())

	stats := m.Snapshot()

	assert.Equal(t, 0, stats.SampleCount)
	assert.Zero(t, stats.HitRatio)
	assert.Zero(t, stats.AvgImageLoadMs)
	// No loads observed means the load component stays at its optimum
	assert.InDelta(t, 40.0, stats.Score, 0.001)
}

func TestScore_Bounds(t *testing.T) {
	// Perfect hit ratio with fast loads
	assert.InDelta(t, 100, score(1.0, 400, true), 0.001)

	// Perfect hit ratio with hopeless loads
	assert.InDelta(t, 60, score(1.0, 5000, true), 0.001)

	// No hits, no loads recorded
	assert.InDelta(t, 40, score(0, 0, false), 0.001)

	// Midpoint load time gives half the load component
	assert.InDelta(t, 80, score(1.0, 1750, true), 0.001)
}

func TestScore_AverageOnlyOverImageLoadSamples(t *testing.T) {
	m := NewMonitor(10, zap.NewNop())

	require.NoError(t, m.Record(models.MetricImageLoad, 1000))
	require.NoError(t, m.Record(models.MetricLCP, 9999))
	require.NoError(t, m.Record(models.MetricImageLoad, 2000))

	assert.InDelta(t, 1500, m.Snapshot().AvgImageLoadMs, 0.001)
}
