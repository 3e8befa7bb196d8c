package imagecache

import (
	"context"
	"crypto/md5"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"go-asset-cache/internal/config"
	"go-asset-cache/internal/models"
	"go-asset-cache/internal/session"
)

// Manager is the session-scoped layer above the router for the
// gallery/hero use case: it builds rate-limited proxy URLs, tracks
// per-item cache validity, and pins images to page slots for the life of
// the session.
type Manager struct {
	cfg     config.ImageProxyConfig
	limiter *rate.Limiter
	session *session.Store
	logger  *zap.Logger
	now     func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewManager creates a new Manager instance
func NewManager(cfg config.ImageProxyConfig, sess *session.Store, logger *zap.Logger) *Manager {
	return &Manager{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(cfg.MinSpacing.Std()), 1),
		session: sess,
		logger:  logger,
		now:     time.Now,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// IsCached reports whether a local freshness record exists for the file
// and is younger than the configured validity window. This check is
// layered on top of the router's own TTLs and decides whether the
// rate-limited proxy needs to be called at all.
func (m *Manager) IsCached(fileID string) bool {
	rec, ok := m.session.ImageRecord(fileID)
	if !ok {
		return false
	}
	return m.now().Sub(rec.Timestamp) < m.cfg.RecordValidity.Std()
}

// BuildProxyURL returns the proxy URL for a file after awaiting the
// minimum spacing between consecutive origin calls. Requests are never
// dropped, only delayed; callers may await the returned cooldown.
func (m *Manager) BuildProxyURL(ctx context.Context, fileID, size string, quality int) (string, error) {
	if size == "" {
		size = m.cfg.DefaultSize
	}
	if quality <= 0 {
		quality = m.cfg.DefaultQuality
	}

	if err := m.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("proxy cooldown interrupted: %w", err)
	}

	m.session.PutImageRecord(models.ImageCacheRecord{
		FileID:    fileID,
		Timestamp: m.now(),
	})

	return fmt.Sprintf("%s%s?size=%s&quality=%d", m.cfg.PathPrefix, fileID, size, quality), nil
}

// AssignImages maps page slots to images: the pool is shuffled once per
// session and distributed round-robin across the known slots. Repeated
// calls with the same pool return the same assignment; only a pool
// membership change or a cleared session re-randomizes.
func (m *Manager) AssignImages(pool []string) map[string]string {
	if len(pool) == 0 {
		return map[string]string{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	hash := poolFingerprint(pool)
	if existing := m.session.Assignments(); len(existing) > 0 && m.session.PoolHash() == hash {
		return existing
	}

	shuffled := make([]string, len(pool))
	copy(shuffled, pool)
	m.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	assignments := make(map[string]string, len(m.cfg.PageSlots))
	for i, slot := range m.cfg.PageSlots {
		assignments[slot] = shuffled[i%len(shuffled)]
	}

	m.session.SetAssignments(assignments, hash)
	m.logger.Debug("Derived new image assignments", zap.Int("pool_size", len(pool)), zap.Int("slots", len(assignments)))

	return assignments
}

// poolFingerprint hashes pool membership order-independently
func poolFingerprint(pool []string) string {
	sorted := make([]string, len(pool))
	copy(sorted, pool)
	sort.Strings(sorted)

	sum := md5.Sum([]byte(strings.Join(sorted, "\n")))
	return fmt.Sprintf("%x", sum)
}
