package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"go-asset-cache/internal/models"
)

// state is the device-local session snapshot persisted as one JSON file.
// Every mutation rewrites the whole file; last writer wins, which is
// acceptable at the write rates involved (one per navigation or image
// fetch).
type state struct {
	Assignments  map[string]string                  `json:"assignments"`
	PoolHash     string                             `json:"pool_hash"`
	ImageRecords map[string]models.ImageCacheRecord `json:"image_records"`
	Patterns     []models.NavigationPattern         `json:"patterns"`
}

// Store holds the mutable session state shared by the image cache manager
// and the prefetch manager. All read-modify-write operations are atomic
// behind a single mutex. With an empty path the store is memory-only,
// which is what the tests use.
type Store struct {
	mu     sync.Mutex
	path   string
	state  state
	logger *zap.Logger
}

// Open loads the session file if one exists and returns the store.
// A corrupt or missing file starts a fresh session rather than failing.
func Open(path string, logger *zap.Logger) *Store {
	s := &Store{
		path:   path,
		logger: logger,
		state: state{
			Assignments:  make(map[string]string),
			ImageRecords: make(map[string]models.ImageCacheRecord),
		},
	}

	if path == "" {
		return s
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}

	var loaded state
	if err := json.Unmarshal(data, &loaded); err != nil {
		logger.Warn("Discarding corrupt session file", zap.String("path", path), zap.Error(err))
		return s
	}

	if loaded.Assignments == nil {
		loaded.Assignments = make(map[string]string)
	}
	if loaded.ImageRecords == nil {
		loaded.ImageRecords = make(map[string]models.ImageCacheRecord)
	}
	s.state = loaded

	return s
}

// Assignments returns a copy of the current page-slot assignment map
func (s *Store) Assignments() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]string, len(s.state.Assignments))
	for k, v := range s.state.Assignments {
		out[k] = v
	}
	return out
}

// PoolHash returns the fingerprint of the image pool the current
// assignments were derived from
func (s *Store) PoolHash() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.PoolHash
}

// SetAssignments replaces the assignment map wholesale, recording the pool
// fingerprint it was derived from
func (s *Store) SetAssignments(assignments map[string]string, poolHash string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Assignments = assignments
	s.state.PoolHash = poolHash
	s.persistLocked()
}

// ImageRecord returns the freshness record for a file, if any
func (s *Store) ImageRecord(fileID string) (models.ImageCacheRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.state.ImageRecords[fileID]
	return rec, ok
}

// PutImageRecord stores a freshness record
func (s *Store) PutImageRecord(rec models.ImageCacheRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.ImageRecords[rec.FileID] = rec
	s.persistLocked()
}

// Patterns returns a copy of the navigation pattern collection
func (s *Store) Patterns() []models.NavigationPattern {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.NavigationPattern, len(s.state.Patterns))
	copy(out, s.state.Patterns)
	return out
}

// UpdatePatterns applies an atomic read-modify-write to the pattern
// collection and persists the result
func (s *Store) UpdatePatterns(apply func([]models.NavigationPattern) []models.NavigationPattern) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Patterns = apply(s.state.Patterns)
	s.persistLocked()
}

// Clear wipes the session, forcing assignments and records to be re-derived
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = state{
		Assignments:  make(map[string]string),
		ImageRecords: make(map[string]models.ImageCacheRecord),
	}
	s.persistLocked()
}

// persistLocked rewrites the session file; callers hold the mutex.
// Persistence failure degrades to memory-only, logged, never fatal.
func (s *Store) persistLocked() {
	if s.path == "" {
		return
	}

	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		s.logger.Error("Failed to marshal session state", zap.Error(err))
		return
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		s.logger.Warn("Failed to create session directory", zap.String("path", s.path), zap.Error(err))
		return
	}

	// Write to temp file first, then rename (atomic)
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		s.logger.Warn("Failed to write session file", zap.String("path", s.path), zap.Error(err))
		return
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		s.logger.Warn("Failed to replace session file", zap.String("path", s.path), zap.Error(err))
	}
}
