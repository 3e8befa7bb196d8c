package prefetch

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"go-asset-cache/internal/config"
	"go-asset-cache/internal/events"
	"go-asset-cache/internal/interfaces"
	"go-asset-cache/internal/metrics"
	"go-asset-cache/internal/models"
	"go-asset-cache/internal/router"
	"go-asset-cache/internal/session"
)

// Scroll-depth thresholds for the two prefetch tiers
const (
	imageScrollThreshold = 0.5
	pageScrollThreshold  = 0.8
)

// Manager decides, without being asked, which not-yet-visible resources to
// fetch ahead of need. Every decision is bounded by the connection-derived
// budget; a zero budget is a hard gate checked before anything else, not a
// soft preference.
type Manager struct {
	router  *router.Router
	sampler interfaces.ConnectionSampler
	session *session.Store
	bus     *events.Bus
	cfg     config.PrefetchConfig
	logger  *zap.Logger
	now     func() time.Time
}

// NewManager creates a new Manager instance
func NewManager(rt *router.Router, sampler interfaces.ConnectionSampler, sess *session.Store, bus *events.Bus, cfg config.PrefetchConfig, logger *zap.Logger) *Manager {
	return &Manager{
		router:  rt,
		sampler: sampler,
		session: sess,
		bus:     bus,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// Limits derives the current prefetch budget from a fresh connection sample
func (m *Manager) Limits() models.PrefetchBudget {
	return BudgetFor(m.sampler.Sample(), m.cfg.Budgets)
}

// OnScroll reacts to a scroll-position update. Crossing 50% of content
// depth prefetches the next off-screen images up to the budget; crossing
// 80% additionally prefetches the next page and the historically likely
// destinations from the current page. Returns the number of prefetch
// requests issued.
func (m *Manager) OnScroll(ctx context.Context, page string, depth float64, images []string, nextPage string) int {
	budget := m.Limits()
	if budget.IsZero() {
		metrics.RecordPrefetchSkipped("budget")
		return 0
	}
	if depth < imageScrollThreshold {
		return 0
	}

	targets := images
	if len(targets) > budget.MaxImages {
		targets = targets[:budget.MaxImages]
	}

	if depth >= pageScrollThreshold {
		if nextPage != "" {
			targets = append(targets, nextPage)
		}
		targets = append(targets, m.PredictedDestinations(page)...)
	}

	return m.issue(ctx, targets, budget.MaxConcurrent)
}

// issue fires best-effort prefetches with at most maxConcurrent in flight
func (m *Manager) issue(ctx context.Context, targets []string, maxConcurrent int) int {
	sem := semaphore.NewWeighted(int64(maxConcurrent))
	var wg sync.WaitGroup

	issued := 0
	for _, target := range targets {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		issued++
		metrics.RecordPrefetchIssued()

		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			defer sem.Release(1)
			if _, err := m.router.Request(ctx, u); err != nil {
				m.logger.Debug("Prefetch failed", zap.String("url", u), zap.Error(err))
			}
		}(target)
	}
	wg.Wait()

	return issued
}

// OnNavigate records a completed navigation, incrementing the (from, to)
// pattern in place and pruning entries unused for longer than the
// configured maximum age. Pruning happens on every write.
func (m *Manager) OnNavigate(from, to string) {
	now := m.now()
	cutoff := now.Add(-m.cfg.PatternMaxAge.Std())

	frequency := 0
	m.session.UpdatePatterns(func(patterns []models.NavigationPattern) []models.NavigationPattern {
		kept := patterns[:0]
		for _, p := range patterns {
			if p.LastUsed.After(cutoff) {
				kept = append(kept, p)
			}
		}

		for i := range kept {
			if kept[i].From == from && kept[i].To == to {
				kept[i].Frequency++
				kept[i].LastUsed = now
				frequency = kept[i].Frequency
				return kept
			}
		}

		frequency = 1
		return append(kept, models.NavigationPattern{
			From:      from,
			To:        to,
			Frequency: 1,
			LastUsed:  now,
		})
	})

	m.bus.Publish(events.TopicNavigation, models.NavigationUpdated{
		From:      from,
		To:        to,
		Frequency: frequency,
	})
}

// PredictedDestinations returns the destinations reached from a page,
// most frequent first, used to bias same-session prefetch priority
func (m *Manager) PredictedDestinations(from string) []string {
	patterns := m.session.Patterns()

	var matched []models.NavigationPattern
	for _, p := range patterns {
		if p.From == from {
			matched = append(matched, p)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Frequency > matched[j].Frequency
	})

	destinations := make([]string, len(matched))
	for i, p := range matched {
		destinations[i] = p.To
	}
	return destinations
}
