package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-asset-cache/internal/models"
)

func TestOpen_MissingFileStartsFresh(t *testing.T) {
	store := Open(filepath.Join(t.TempDir(), "session.json"), zap.NewNop())

	assert.Empty(t, store.Assignments())
	assert.Empty(t, store.Patterns())
	assert.Empty(t, store.PoolHash())
}

func TestOpen_CorruptFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{invalid"), 0644))

	store := Open(path, zap.NewNop())

	assert.Empty(t, store.Assignments())
}

func TestStore_AssignmentsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	store := Open(path, zap.NewNop())
	store.SetAssignments(map[string]string{"hero-home": "img-1", "hero-about": "img-2"}, "hash-a")

	// A second open sees the persisted state
	reopened := Open(path, zap.NewNop())
	assert.Equal(t, map[string]string{"hero-home": "img-1", "hero-about": "img-2"}, reopened.Assignments())
	assert.Equal(t, "hash-a", reopened.PoolHash())
}

func TestStore_ImageRecordsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	ts := time.Now().Truncate(time.Second)

	store := Open(path, zap.NewNop())
	store.PutImageRecord(models.ImageCacheRecord{FileID: "file-1", Timestamp: ts})

	rec, ok := store.ImageRecord("file-1")
	require.True(t, ok)
	assert.Equal(t, "file-1", rec.FileID)

	reopened := Open(path, zap.NewNop())
	rec, ok = reopened.ImageRecord("file-1")
	require.True(t, ok)
	assert.True(t, rec.Timestamp.Equal(ts))

	_, ok = reopened.ImageRecord("file-2")
	assert.False(t, ok)
}

func TestStore_UpdatePatterns_ReadModifyWrite(t *testing.T) {
	store := Open("", zap.NewNop())

	store.UpdatePatterns(func(patterns []models.NavigationPattern) []models.NavigationPattern {
		return append(patterns, models.NavigationPattern{From: "/", To: "/artists", Frequency: 1, LastUsed: time.Now()})
	})
	store.UpdatePatterns(func(patterns []models.NavigationPattern) []models.NavigationPattern {
		patterns[0].Frequency++
		return patterns
	})

	patterns := store.Patterns()
	require.Len(t, patterns, 1)
	assert.Equal(t, 2, patterns[0].Frequency)
}

func TestStore_PatternsReturnsCopy(t *testing.T) {
	store := Open("", zap.NewNop())
	store.UpdatePatterns(func(patterns []models.NavigationPattern) []models.NavigationPattern {
		return append(patterns, models.NavigationPattern{From: "/", To: "/tickets", Frequency: 1})
	})

	copied := store.Patterns()
	copied[0].Frequency = 99

	assert.Equal(t, 1, store.Patterns()[0].Frequency)
}

func TestStore_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	store := Open(path, zap.NewNop())
	store.SetAssignments(map[string]string{"hero-home": "img-1"}, "hash-a")
	store.PutImageRecord(models.ImageCacheRecord{FileID: "file-1", Timestamp: time.Now()})

	store.Clear()

	assert.Empty(t, store.Assignments())
	assert.Empty(t, store.PoolHash())
	_, ok := store.ImageRecord("file-1")
	assert.False(t, ok)

	// The cleared state is what persists
	reopened := Open(path, zap.NewNop())
	assert.Empty(t, reopened.Assignments())
}

func TestStore_EmptyPathIsMemoryOnly(t *testing.T) {
	store := Open("", zap.NewNop())
	store.SetAssignments(map[string]string{"hero-home": "img-1"}, "hash-a")

	// Nothing is written anywhere; a fresh open has no state
	assert.Equal(t, map[string]string{"hero-home": "img-1"}, store.Assignments())
	fresh := Open("", zap.NewNop())
	assert.Empty(t, fresh.Assignments())
}

func TestStore_PersistenceCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "session.json")

	store := Open(path, zap.NewNop())
	store.SetAssignments(map[string]string{"hero-home": "img-1"}, "hash-a")

	_, err := os.Stat(path)
	assert.NoError(t, err)
}
