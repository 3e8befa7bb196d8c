package memory

import (
	"context"
	"encoding/json"
	"time"

	"github.com/allegro/bigcache/v3"
	"go.uber.org/zap"

	"go-asset-cache/internal/interfaces"
	"go-asset-cache/internal/metrics"
	"go-asset-cache/internal/models"
	"go-asset-cache/internal/scheduler"
)

// Ensure Store implements interfaces.Store
var _ interfaces.Store = (*Store)(nil)

// Store implements the in-memory cache level using BigCache.
// One instance backs exactly one resource class.
type Store struct {
	cache            *bigcache.BigCache
	class            string
	logger           *zap.Logger
	metricsScheduler *scheduler.Scheduler
}

// NewStore creates an in-memory store for one resource class
func NewStore(class string, sizeMB int, logger *zap.Logger) (*Store, error) {
	cfg := bigcache.DefaultConfig(10 * time.Minute) // Default eviction time
	cfg.HardMaxCacheSize = sizeMB
	cfg.Verbose = false
	cfg.MaxEntrySize = 1024 * 1024 // 1MB max entry size

	cache, err := bigcache.New(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	s := &Store{
		cache:  cache,
		class:  class,
		logger: logger,
	}

	s.startMetricsCollection()

	return s, nil
}

// Get retrieves a cache entry, treating entries beyond their stale window
// as absent
func (s *Store) Get(key string) (*models.CacheEntry, bool) {
	data, err := s.cache.Get(key)
	if err != nil {
		return nil, false
	}

	var entry models.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		s.logger.Warn("Failed to unmarshal memory cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError("memory", "decode")
		s.cache.Delete(key) // Remove corrupted entry
		return nil, false
	}

	if entry.IsExpired() {
		s.cache.Delete(key)
		return nil, false
	}

	return &entry, true
}

// GetStale retrieves an entry regardless of freshness (for stale-if-error)
func (s *Store) GetStale(key string) (*models.CacheEntry, bool) {
	data, err := s.cache.Get(key)
	if err != nil {
		return nil, false
	}

	var entry models.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		s.cache.Delete(key) // Remove corrupted entry
		return nil, false
	}

	// Entries beyond the stale window are gone for good
	if entry.IsExpired() {
		s.cache.Delete(key)
		return nil, false
	}

	return &entry, true
}

// Set stores an entry, replacing any previous value wholesale
func (s *Store) Set(key string, entry models.CacheEntry) {
	data, err := json.Marshal(entry)
	if err != nil {
		s.logger.Error("Failed to marshal cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError("memory", "encode")
		return
	}

	if err := s.cache.Set(key, data); err != nil {
		s.logger.Error("Failed to set cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError("memory", "write")
		return
	}
}

// Delete removes an entry from the store
func (s *Store) Delete(key string) {
	_ = s.cache.Delete(key)
}

// Close stops metrics collection and releases the store
func (s *Store) Close() error {
	if s.metricsScheduler != nil {
		s.metricsScheduler.Stop()
	}
	return s.cache.Close()
}

// GetStats returns store statistics for metrics
func (s *Store) GetStats() (capacity, used int64) {
	stats := s.cache.Stats()
	capacity = int64(s.cache.Capacity())
	used = int64(stats.Hits + stats.Misses) // Approximate usage based on operations

	return capacity, used
}

// startMetricsCollection starts periodic metrics collection
func (s *Store) startMetricsCollection() {
	s.metricsScheduler = scheduler.New(30*time.Second, s.updateMetrics)
	s.metricsScheduler.Start()

	// Initial collection
	s.updateMetrics()
}

// updateMetrics updates store capacity metrics
func (s *Store) updateMetrics() {
	capacity, used := s.GetStats()
	metrics.UpdateStoreCapacity(s.class, capacity, used)
}
