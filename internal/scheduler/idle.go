package scheduler

import (
	"context"
	"time"
)

// Idle paces cooperative background work: callers yield between batches so
// the interactive path is never starved, and a pass ends once its time
// budget is spent. There is no native idle-detection on this platform, so
// yielding falls back to a fixed short delay.
type Idle struct {
	delay   time.Duration
	budget  time.Duration
	started time.Time
}

// NewIdle creates an idle pacer with the given inter-batch delay and
// per-pass time budget
func NewIdle(delay, budget time.Duration) *Idle {
	return &Idle{delay: delay, budget: budget}
}

// Begin marks the start of a pass
func (i *Idle) Begin() {
	i.started = time.Now()
}

// Exhausted reports whether the pass has used up its time budget
func (i *Idle) Exhausted() bool {
	return i.budget > 0 && time.Since(i.started) >= i.budget
}

// Yield hands control back for one delay interval, returning early if the
// context is cancelled
func (i *Idle) Yield(ctx context.Context) error {
	timer := time.NewTimer(i.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
