package warmer

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"go-asset-cache/internal/config"
	"go-asset-cache/internal/metrics"
	"go-asset-cache/internal/router"
	"go-asset-cache/internal/scheduler"
)

// State is the warmer's position in its pass
type State int32

const (
	StateIdle State = iota
	StateWarmingCritical
	StateWarmingSpeculative
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateWarmingCritical:
		return "warming_critical"
	case StateWarmingSpeculative:
		return "warming_speculative"
	default:
		return "idle"
	}
}

// Warmer drives the router proactively: on page-ready it warms the fixed
// critical-resource manifest immediately, then warms predicted resources
// during idle time. Critical warming strictly precedes speculative warming;
// the transition is enforced by the pass structure, not by timing.
type Warmer struct {
	router  *router.Router
	cfg     config.WarmerConfig
	logger  *zap.Logger
	warming atomic.Bool
	state   atomic.Int32
}

// New creates a new Warmer instance
func New(rt *router.Router, cfg config.WarmerConfig, logger *zap.Logger) *Warmer {
	return &Warmer{
		router: rt,
		cfg:    cfg,
		logger: logger,
	}
}

// State returns the warmer's current phase
func (w *Warmer) State() State {
	return State(w.state.Load())
}

// IsWarming reports whether a pass is in flight
func (w *Warmer) IsWarming() bool {
	return w.warming.Load()
}

// Warm runs one full warming pass: critical manifest first, then the
// speculative list in idle-paced batches. Overlapping triggers are no-ops
// until the in-flight pass finishes; the return value reports whether this
// call started a pass.
func (w *Warmer) Warm(ctx context.Context, speculative []string) bool {
	if !w.warming.CompareAndSwap(false, true) {
		w.logger.Debug("Warming already in progress, skipping trigger")
		return false
	}
	defer func() {
		w.state.Store(int32(StateIdle))
		w.warming.Store(false)
	}()

	w.state.Store(int32(StateWarmingCritical))
	w.warmBatch(ctx, w.cfg.CriticalResources)
	metrics.RecordWarmerPass("critical")

	w.state.Store(int32(StateWarmingSpeculative))
	w.warmSpeculative(ctx, speculative)
	metrics.RecordWarmerPass("speculative")

	return true
}

// warmBatch issues best-effort fetches with bounded concurrency. A missing
// asset must not block the rest, so individual failures are only logged.
func (w *Warmer) warmBatch(ctx context.Context, urls []string) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.cfg.BatchSize)

	for _, u := range urls {
		u := u
		g.Go(func() error {
			if _, err := w.router.Request(gctx, u); err != nil {
				w.logger.Debug("Warm fetch failed", zap.String("url", u), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()
}

// warmSpeculative walks the predicted list in small batches, yielding
// between batches and stopping once the list is exhausted or the time
// budget elapses
func (w *Warmer) warmSpeculative(ctx context.Context, speculative []string) {
	if len(speculative) > w.cfg.SpeculativeLimit {
		speculative = speculative[:w.cfg.SpeculativeLimit]
	}
	if len(speculative) == 0 {
		return
	}

	idle := scheduler.NewIdle(w.cfg.IdleDelay.Std(), w.cfg.TimeBudget.Std())
	idle.Begin()

	// Wait for an idle window before touching speculative work at all
	if err := idle.Yield(ctx); err != nil {
		return
	}

	for start := 0; start < len(speculative); start += w.cfg.BatchSize {
		if idle.Exhausted() {
			w.logger.Debug("Speculative warming stopped, time budget spent",
				zap.Int("warmed", start), zap.Int("total", len(speculative)))
			return
		}

		end := start + w.cfg.BatchSize
		if end > len(speculative) {
			end = len(speculative)
		}
		w.warmBatch(ctx, speculative[start:end])

		if end < len(speculative) {
			if err := idle.Yield(ctx); err != nil {
				return
			}
		}
	}
}
