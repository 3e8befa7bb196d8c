package persistent

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"go-asset-cache/internal/interfaces"
	"go-asset-cache/internal/metrics"
	"go-asset-cache/internal/models"
)

// Ensure Store implements interfaces.Store
var _ interfaces.Store = (*Store)(nil)

// Store implements the persistent cache level on Redis. It models the
// device's durable cache storage: entries survive process restarts but
// carry the same freshness windows as the memory level.
type Store struct {
	client       interfaces.RedisClient
	readTimeout  time.Duration
	writeTimeout time.Duration
	logger       *zap.Logger
}

// NewStore creates a persistent store with the provided client
func NewStore(client interfaces.RedisClient, readTimeout, writeTimeout time.Duration, logger *zap.Logger) *Store {
	return &Store{
		client:       client,
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
		logger:       logger,
	}
}

// Get retrieves a cache entry, treating expired entries as absent
func (s *Store) Get(key string) (*models.CacheEntry, bool) {
	entry, found := s.load(key)
	if !found {
		return nil, false
	}
	return entry, true
}

// GetStale retrieves an entry regardless of freshness (for stale-if-error)
func (s *Store) GetStale(key string) (*models.CacheEntry, bool) {
	return s.load(key)
}

// load fetches and decodes an entry, dropping corrupted or fully expired ones
func (s *Store) load(key string) (*models.CacheEntry, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), s.readTimeout)
	defer cancel()

	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}

	var entry models.CacheEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		s.logger.Warn("Failed to unmarshal persistent cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError("persistent", "decode")
		s.client.Del(context.Background(), key)
		return nil, false
	}

	if entry.IsExpired() {
		s.client.Del(context.Background(), key)
		return nil, false
	}

	return &entry, true
}

// Set stores an entry with expiry covering the full stale window
func (s *Store) Set(key string, entry models.CacheEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
	defer cancel()

	data, err := json.Marshal(entry)
	if err != nil {
		s.logger.Error("Failed to marshal persistent cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError("persistent", "encode")
		return
	}

	expiry := time.Until(time.Unix(entry.ExpiresAt, 0))
	if expiry <= 0 {
		return
	}

	if err := s.client.Set(ctx, key, data, expiry).Err(); err != nil {
		s.logger.Error("Failed to set persistent cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError("persistent", "write")
		return
	}
}

// Delete removes an entry
func (s *Store) Delete(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
	defer cancel()

	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.logger.Error("Failed to delete persistent cache entry", zap.String("key", key), zap.Error(err))
	}
}

// Close closes the underlying client connection
func (s *Store) Close() error {
	return s.client.Close()
}
