package noop

import (
	"go-asset-cache/internal/interfaces"
	"go-asset-cache/internal/models"
)

// Ensure Store implements interfaces.Store
var _ interfaces.Store = (*Store)(nil)

// Store is the degraded-mode cache: every operation is a pass-through.
// It stands in when a store level is disabled or its backing storage is
// unavailable, so callers always see network-only behavior instead of
// errors.
type Store struct{}

// NewStore creates a new no-operation store instance
func NewStore() interfaces.Store {
	return &Store{}
}

// Get always returns cache miss
func (n *Store) Get(key string) (*models.CacheEntry, bool) {
	return nil, false
}

// GetStale always returns cache miss
func (n *Store) GetStale(key string) (*models.CacheEntry, bool) {
	return nil, false
}

// Set does nothing
func (n *Store) Set(key string, entry models.CacheEntry) {
	// No-op
}

// Delete does nothing
func (n *Store) Delete(key string) {
	// No-op
}
