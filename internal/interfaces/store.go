package interfaces

import (
	"go-asset-cache/internal/models"
)

//go:generate mockgen -package=mocks -source=store.go -destination=mocks/store.go

// Store defines the contract for cache store implementations
type Store interface {
	Get(key string) (*models.CacheEntry, bool)      // returns entry and found flag
	GetStale(key string) (*models.CacheEntry, bool) // stale-if-error, returns entry and found flag
	Set(key string, entry models.CacheEntry)
	Delete(key string)
}
