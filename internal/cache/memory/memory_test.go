package memory

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"go-asset-cache/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore("image", 10, zap.NewNop())
	assert.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewStore(t *testing.T) {
	store := newTestStore(t)

	assert.NotNil(t, store)
	assert.NotNil(t, store.cache)
}

func TestStore_Set_And_Get_Fresh(t *testing.T) {
	store := newTestStore(t)

	entry := models.NewCacheEntry([]byte("test-value"), "image/jpeg", models.TTL{Fresh: 60 * time.Second, Stale: 30 * time.Second})
	store.Set("/images/hero.jpg", entry)

	result, found := store.Get("/images/hero.jpg")

	assert.True(t, found)
	assert.NotNil(t, result)
	assert.True(t, result.IsFresh())
	assert.Equal(t, []byte("test-value"), result.Data)
	assert.Equal(t, "image/jpeg", result.ContentType)
}

func TestStore_Get_NotFound(t *testing.T) {
	store := newTestStore(t)

	result, found := store.Get("/nonexistent.jpg")

	assert.False(t, found)
	assert.Nil(t, result)
}

func TestStore_Get_Stale(t *testing.T) {
	store := newTestStore(t)

	// Manually create a stale but not expired entry
	now := time.Now().Unix()
	entry := models.CacheEntry{
		Data:      []byte("stale-value"),
		CreatedAt: now - 200,
		StaleAt:   now - 50,
		ExpiresAt: now + 100,
	}
	entryJSON, _ := json.Marshal(entry)
	_ = store.cache.Set("/images/hero.jpg", entryJSON)

	result, found := store.Get("/images/hero.jpg")

	assert.True(t, found)
	assert.NotNil(t, result)
	assert.False(t, result.IsFresh())
	assert.Equal(t, []byte("stale-value"), result.Data)
}

func TestStore_Get_Expired(t *testing.T) {
	store := newTestStore(t)

	// Manually create an entry beyond its stale window
	now := time.Now().Unix()
	entry := models.CacheEntry{
		Data:      []byte("expired-value"),
		CreatedAt: now - 300,
		StaleAt:   now - 200,
		ExpiresAt: now - 100,
	}
	entryJSON, _ := json.Marshal(entry)
	_ = store.cache.Set("/images/hero.jpg", entryJSON)

	result, found := store.Get("/images/hero.jpg")

	assert.False(t, found)
	assert.Nil(t, result)
}

func TestStore_Get_CorruptEntryDropped(t *testing.T) {
	store := newTestStore(t)

	_ = store.cache.Set("/images/hero.jpg", []byte("not-json"))

	result, found := store.Get("/images/hero.jpg")
	assert.False(t, found)
	assert.Nil(t, result)

	// The corrupt entry is removed, not retried
	_, err := store.cache.Get("/images/hero.jpg")
	assert.Error(t, err)
}

func TestStore_GetStale_Success(t *testing.T) {
	store := newTestStore(t)

	now := time.Now().Unix()
	entry := models.CacheEntry{
		Data:      []byte("stale-value"),
		CreatedAt: now - 200,
		StaleAt:   now - 50,
		ExpiresAt: now + 100,
	}
	entryJSON, _ := json.Marshal(entry)
	_ = store.cache.Set("/images/hero.jpg", entryJSON)

	result, found := store.GetStale("/images/hero.jpg")

	assert.True(t, found)
	assert.NotNil(t, result)
	assert.Equal(t, []byte("stale-value"), result.Data)
}

func TestStore_GetStale_Expired(t *testing.T) {
	store := newTestStore(t)

	now := time.Now().Unix()
	entry := models.CacheEntry{
		Data:      []byte("gone"),
		CreatedAt: now - 300,
		StaleAt:   now - 200,
		ExpiresAt: now - 100,
	}
	entryJSON, _ := json.Marshal(entry)
	_ = store.cache.Set("/images/hero.jpg", entryJSON)

	result, found := store.GetStale("/images/hero.jpg")

	assert.False(t, found)
	assert.Nil(t, result)
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)

	entry := models.NewCacheEntry([]byte("test-value"), "text/css", models.TTL{Fresh: 60 * time.Second, Stale: 6 * time.Second})
	store.Set("/css/base.css", entry)

	_, found := store.Get("/css/base.css")
	assert.True(t, found)

	store.Delete("/css/base.css")

	result, found := store.Get("/css/base.css")
	assert.False(t, found)
	assert.Nil(t, result)
}

func TestStore_Delete_NonExistent(t *testing.T) {
	store := newTestStore(t)

	// Should not panic
	store.Delete("/nonexistent.jpg")
}

func TestStore_RoundTrip_ByteIdentical(t *testing.T) {
	store := newTestStore(t)

	payload := []byte{0x00, 0xff, 0x1b, 0x7f, 0x80, 0x00}
	entry := models.NewCacheEntry(payload, "application/octet-stream", models.TTL{Fresh: time.Minute, Stale: 6 * time.Second})
	store.Set("/assets/blob", entry)

	result, found := store.Get("/assets/blob")
	assert.True(t, found)
	assert.Equal(t, payload, result.Data)
	assert.Equal(t, "application/octet-stream", result.ContentType)
}

func TestStore_Concurrent_Access(t *testing.T) {
	store := newTestStore(t)

	ttl := models.TTL{Fresh: 60 * time.Second, Stale: 30 * time.Second}
	numGoroutines := 10
	numOperations := 100

	done := make(chan bool, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			for j := 0; j < numOperations; j++ {
				key := fmt.Sprintf("concurrent-key-%d-%d", id, j)
				value := []byte(fmt.Sprintf("value-%d-%d", id, j))

				store.Set(key, models.NewCacheEntry(value, "text/plain", ttl))

				if result, found := store.Get(key); found {
					assert.Equal(t, value, result.Data)
				}

				store.Delete(key)
			}
			done <- true
		}(i)
	}

	for i := 0; i < numGoroutines; i++ {
		<-done
	}
}
