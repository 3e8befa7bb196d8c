package progressive

import (
	"context"
	"errors"
	"image/color"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-asset-cache/internal/cache"
	"go-asset-cache/internal/classifier"
	"go-asset-cache/internal/config"
	"go-asset-cache/internal/events"
	"go-asset-cache/internal/models"
	"go-asset-cache/internal/router"
)

// stageCall records one renderer invocation in order
type stageCall struct {
	stage string
	ref   string
	tint  string
	data  []byte
}

// recordingRenderer captures the stage sequence per test
type recordingRenderer struct {
	mu    sync.Mutex
	calls []stageCall
}

func (r *recordingRenderer) ShowSkeleton(ref string, aspectRatio float64, tint string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, stageCall{stage: "skeleton", ref: ref, tint: tint})
}

func (r *recordingRenderer) ShowPreview(ref string, thumbnail []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, stageCall{stage: "preview", ref: ref, data: thumbnail})
}

func (r *recordingRenderer) ShowImage(ref string, data []byte, contentType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, stageCall{stage: "image", ref: ref, data: data})
}

func (r *recordingRenderer) stages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.stage
	}
	return out
}

// mapFetcher serves canned responses per URL, failing unknown URLs
type mapFetcher struct {
	mu        sync.Mutex
	responses map[string][]byte
}

func (f *mapFetcher) Fetch(ctx context.Context, url string) (*models.FetchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if body, ok := f.responses[url]; ok {
		return &models.FetchResult{Status: 200, ContentType: "image/png", Body: body}, nil
	}
	return nil, errors.New("not found")
}

type passStore struct{}

func (passStore) Get(string) (*models.CacheEntry, bool)      { return nil, false }
func (passStore) GetStale(string) (*models.CacheEntry, bool) { return nil, false }
func (passStore) Set(string, models.CacheEntry)              {}
func (passStore) Delete(string)                              {}

func newTestLoader(t *testing.T, fetcher *mapFetcher) (*Loader, *recordingRenderer, *events.Bus) {
	t.Helper()
	logger := zap.NewNop()
	bus := events.NewBus(logger)

	rt := router.New(
		cache.NewStores(passStore{}, passStore{}, passStore{}),
		classifier.New(config.Default(), logger),
		fetcher,
		bus,
		logger,
	)

	renderer := &recordingRenderer{}
	return NewLoader(rt, renderer, bus, logger), renderer, bus
}

func TestLoad_AllStagesInOrder(t *testing.T) {
	thumb := encodePNG(t, color.RGBA{R: 255, A: 255}, 8, 8)
	fetcher := &mapFetcher{responses: map[string][]byte{
		"/images/thumb.png": thumb,
		"/images/full.png":  []byte("full-bytes"),
	}}
	loader, renderer, _ := newTestLoader(t, fetcher)

	loader.Load(context.Background(), "ref-1", Source{
		URL:          "/images/full.png",
		ThumbnailURL: "/images/thumb.png",
		Width:        400,
		Height:       300,
	})

	assert.Equal(t, []string{"skeleton", "preview", "image"}, renderer.stages())

	// The skeleton carries the thumbnail's dominant color
	renderer.mu.Lock()
	defer renderer.mu.Unlock()
	assert.Equal(t, "#ff0000", renderer.calls[0].tint)
	assert.Equal(t, []byte("full-bytes"), renderer.calls[2].data)
}

func TestLoad_NoThumbnailSkipsPreview(t *testing.T) {
	fetcher := &mapFetcher{responses: map[string][]byte{
		"/images/full.png": []byte("full-bytes"),
	}}
	loader, renderer, _ := newTestLoader(t, fetcher)

	loader.Load(context.Background(), "ref-1", Source{URL: "/images/full.png"})

	assert.Equal(t, []string{"skeleton", "image"}, renderer.stages())

	renderer.mu.Lock()
	defer renderer.mu.Unlock()
	assert.Equal(t, NeutralTint, renderer.calls[0].tint)
}

func TestLoad_ThumbnailFetchFailureSkipsPreview(t *testing.T) {
	fetcher := &mapFetcher{responses: map[string][]byte{
		"/images/full.png": []byte("full-bytes"),
	}}
	loader, renderer, _ := newTestLoader(t, fetcher)

	// The thumbnail URL degrades to a placeholder, which must not be
	// mistaken for a real preview
	loader.Load(context.Background(), "ref-1", Source{
		URL:          "/images/full.png",
		ThumbnailURL: "/images/missing-thumb.png",
	})

	assert.Equal(t, []string{"skeleton", "image"}, renderer.stages())
}

func TestLoad_FullImageFailureKeepsPriorStage(t *testing.T) {
	thumb := encodePNG(t, color.RGBA{G: 255, A: 255}, 8, 8)
	fetcher := &mapFetcher{responses: map[string][]byte{
		"/images/thumb.png": thumb,
	}}
	loader, renderer, _ := newTestLoader(t, fetcher)

	loader.Load(context.Background(), "ref-1", Source{
		URL:          "/images/broken.png",
		ThumbnailURL: "/images/thumb.png",
	})

	// The full image degrades to a placeholder; the preview stays visible
	assert.Equal(t, []string{"skeleton", "preview"}, renderer.stages())
}

func TestLoad_UndecodableThumbnailFallsBackToNeutralTint(t *testing.T) {
	fetcher := &mapFetcher{responses: map[string][]byte{
		"/images/thumb.png": []byte("not-a-decodable-image"),
		"/images/full.png":  []byte("full-bytes"),
	}}
	loader, renderer, _ := newTestLoader(t, fetcher)

	loader.Load(context.Background(), "ref-1", Source{
		URL:          "/images/full.png",
		ThumbnailURL: "/images/thumb.png",
	})

	// Extraction failure downgrades the tint, not the stage sequence
	assert.Equal(t, []string{"skeleton", "preview", "image"}, renderer.stages())
	renderer.mu.Lock()
	defer renderer.mu.Unlock()
	assert.Equal(t, NeutralTint, renderer.calls[0].tint)
}

func TestLoad_PublishesLoadEventWithFirstImageFlag(t *testing.T) {
	fetcher := &mapFetcher{responses: map[string][]byte{
		"/images/a.png": []byte("a"),
		"/images/b.png": []byte("b"),
	}}
	loader, _, bus := newTestLoader(t, fetcher)
	loaded := bus.Subscribe(events.TopicImageLoaded, 4)

	loader.Load(context.Background(), "ref-a", Source{URL: "/images/a.png"})
	loader.Load(context.Background(), "ref-b", Source{URL: "/images/b.png"})

	first, ok := (<-loaded).(models.ImageLoadCompleted)
	require.True(t, ok)
	assert.True(t, first.IsFirstImage)
	assert.Equal(t, "/images/a.png", first.URL)

	second, ok := (<-loaded).(models.ImageLoadCompleted)
	require.True(t, ok)
	assert.False(t, second.IsFirstImage)
}

func TestLoad_FailedLoadPublishesNothing(t *testing.T) {
	fetcher := &mapFetcher{responses: map[string][]byte{}}
	loader, _, bus := newTestLoader(t, fetcher)
	loaded := bus.Subscribe(events.TopicImageLoaded, 4)

	loader.Load(context.Background(), "ref-1", Source{URL: "/images/broken.png"})

	select {
	case <-loaded:
		t.Fatal("no load event expected for a degraded load")
	default:
	}
}

func TestAspectRatio(t *testing.T) {
	assert.InDelta(t, 16.0/9.0, aspectRatio(Source{Width: 1920, Height: 1080}), 0.001)
	assert.InDelta(t, defaultAspectRatio, aspectRatio(Source{}), 0.001)
	assert.InDelta(t, defaultAspectRatio, aspectRatio(Source{Width: 100}), 0.001)
}
