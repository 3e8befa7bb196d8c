package noop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"go-asset-cache/internal/models"
)

func TestStore_AlwaysMisses(t *testing.T) {
	store := NewStore()

	entry := models.NewCacheEntry([]byte("value"), "text/plain", models.TTL{Fresh: time.Minute, Stale: 6 * time.Second})
	store.Set("key", entry)

	result, found := store.Get("key")
	assert.False(t, found)
	assert.Nil(t, result)

	result, found = store.GetStale("key")
	assert.False(t, found)
	assert.Nil(t, result)
}

func TestStore_DeleteIsNoOp(t *testing.T) {
	store := NewStore()

	// Should not panic
	store.Delete("key")
	store.Delete("")
}
