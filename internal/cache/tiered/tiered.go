package tiered

import (
	"go.uber.org/zap"

	"go-asset-cache/internal/interfaces"
	"go-asset-cache/internal/models"
)

// Ensure Store implements interfaces.Store
var _ interfaces.Store = (*Store)(nil)

// Store composes multiple cache levels behind the single Store contract.
// Reads try each level in order until one has the key; writes go to all
// levels. Writes are last-write-wins on idempotent keys, so overlapping
// warm/prefetch writes need no coordination.
type Store struct {
	levels []interfaces.Store
	logger *zap.Logger
}

// NewStore creates a tiered store over the provided levels, fastest first
func NewStore(levels []interfaces.Store, logger *zap.Logger) *Store {
	return &Store{
		levels: levels,
		logger: logger,
	}
}

// levelNames label hits for metrics, fastest level first
var levelNames = []string{"memory", "persistent"}

// GetWithLevel retrieves the entry from the first level that has the key,
// reporting which level answered
func (s *Store) GetWithLevel(key string) (*models.CacheEntry, string, bool) {
	for i, level := range s.levels {
		if entry, found := level.Get(key); found {
			name := "unknown"
			if i < len(levelNames) {
				name = levelNames[i]
			}
			return entry, name, true
		}
	}
	return nil, "", false
}

// Get retrieves the entry from the first level that has the key
func (s *Store) Get(key string) (*models.CacheEntry, bool) {
	if len(s.levels) == 0 {
		s.logger.Warn("No cache levels available for get operation", zap.String("key", key))
		return nil, false
	}

	for _, level := range s.levels {
		if entry, found := level.Get(key); found {
			return entry, true
		}
	}
	return nil, false
}

// GetStale retrieves a stale entry from the first level that has the key
func (s *Store) GetStale(key string) (*models.CacheEntry, bool) {
	for _, level := range s.levels {
		if entry, found := level.GetStale(key); found {
			return entry, true
		}
	}
	return nil, false
}

// Set stores the entry in all levels
func (s *Store) Set(key string, entry models.CacheEntry) {
	if len(s.levels) == 0 {
		s.logger.Warn("No cache levels available for set operation", zap.String("key", key))
		return
	}

	for _, level := range s.levels {
		level.Set(key, entry)
	}
}

// Delete removes the entry from all levels
func (s *Store) Delete(key string) {
	for _, level := range s.levels {
		level.Delete(key)
	}
}

// LevelCount returns the number of composed levels
func (s *Store) LevelCount() int {
	return len(s.levels)
}
