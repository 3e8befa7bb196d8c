package progressive

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"go-asset-cache/internal/events"
	"go-asset-cache/internal/interfaces"
	"go-asset-cache/internal/models"
	"go-asset-cache/internal/router"
)

// defaultAspectRatio is used when the source carries no dimensions
const defaultAspectRatio = 4.0 / 3.0

// Source describes one image to load progressively
type Source struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
}

// Loader runs the per-image staged reveal pipeline: skeleton placeholder,
// blurred low-resolution preview, full-resolution image. Phases are
// strictly ordered per image and independently skippable when a
// precondition is missing; independent images have no ordering
// relationship with each other.
type Loader struct {
	router    *router.Router
	renderer  interfaces.Renderer
	bus       *events.Bus
	logger    *zap.Logger
	firstDone atomic.Bool
}

// NewLoader creates a new Loader instance
func NewLoader(rt *router.Router, renderer interfaces.Renderer, bus *events.Bus, logger *zap.Logger) *Loader {
	return &Loader{
		router:   rt,
		renderer: renderer,
		bus:      bus,
		logger:   logger,
	}
}

// Load runs the three phases for one image. The worst outcome is that a
// later phase is skipped and the best prior stage stays visible; a broken
// state is never shown.
func (l *Loader) Load(ctx context.Context, ref string, src Source) {
	started := time.Now()

	// Phase 1: skeleton, tinted if a thumbnail is available to sample.
	// The skeleton always precedes any image paint.
	thumb := l.fetchThumbnail(ctx, src)
	tint := NeutralTint
	if thumb != nil {
		if extracted, err := DominantColor(thumb); err == nil {
			tint = extracted
		} else {
			l.logger.Debug("Dominant color extraction failed", zap.String("ref", ref), zap.Error(err))
		}
	}
	l.renderer.ShowSkeleton(ref, aspectRatio(src), tint)

	// Phase 2: blurred preview, skipped when there is no thumbnail
	if thumb != nil {
		l.renderer.ShowPreview(ref, thumb)
	}

	// Phase 3: full resolution
	resp, err := l.router.Request(ctx, src.URL)
	if err != nil || resp.Synthetic {
		l.logger.Warn("Full image load failed, keeping prior stage",
			zap.String("ref", ref), zap.String("url", src.URL), zap.Error(err))
		return
	}
	l.renderer.ShowImage(ref, resp.Body, resp.ContentType)

	l.bus.Publish(events.TopicImageLoaded, models.ImageLoadCompleted{
		URL:          src.URL,
		LoadTimeMs:   time.Since(started).Milliseconds(),
		IsFirstImage: l.firstDone.CompareAndSwap(false, true),
	})
}

// fetchThumbnail returns thumbnail bytes, or nil when the source has none
// or the fetch degraded to a placeholder
func (l *Loader) fetchThumbnail(ctx context.Context, src Source) []byte {
	if src.ThumbnailURL == "" {
		return nil
	}

	resp, err := l.router.Request(ctx, src.ThumbnailURL)
	if err != nil || resp.Synthetic {
		return nil
	}
	return resp.Body
}

// aspectRatio returns the known ratio or the estimate
func aspectRatio(src Source) float64 {
	if src.Width > 0 && src.Height > 0 {
		return float64(src.Width) / float64(src.Height)
	}
	return defaultAspectRatio
}
