package router

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"go-asset-cache/internal/cache"
	"go-asset-cache/internal/classifier"
	"go-asset-cache/internal/events"
	"go-asset-cache/internal/interfaces"
	"go-asset-cache/internal/metrics"
	"go-asset-cache/internal/models"
)

// revalidateTimeout bounds the fire-and-forget background refresh, which
// cannot inherit the original request's context
const revalidateTimeout = 30 * time.Second

// Router answers every outgoing request either from a class-appropriate
// cache store or from the network. It is the only component that touches
// the stores directly; per-class strategy:
//
//   - image:  cache-first with TTL, stale-on-error, placeholder of last resort
//   - api:    network-first with cache fallback, failures propagate
//   - static: stale-while-revalidate
type Router struct {
	stores  *cache.Stores
	rules   *classifier.Classifier
	fetcher interfaces.Fetcher
	bus     *events.Bus
	logger  *zap.Logger
}

// New creates a new Router instance
func New(stores *cache.Stores, rules *classifier.Classifier, fetcher interfaces.Fetcher, bus *events.Bus, logger *zap.Logger) *Router {
	return &Router{
		stores:  stores,
		rules:   rules,
		fetcher: fetcher,
		bus:     bus,
		logger:  logger,
	}
}

// Request routes one resource request through the per-class state machine
func (r *Router) Request(ctx context.Context, rawURL string) (*models.Response, error) {
	class := r.rules.Classify(rawURL)
	metrics.RecordRequest(string(class))

	timer := metrics.TimeCacheGetOperation(string(class))
	defer timer()

	switch class {
	case models.ClassImage:
		return r.requestImage(ctx, rawURL), nil
	case models.ClassAPI:
		return r.requestAPI(ctx, rawURL)
	default:
		return r.requestStatic(ctx, rawURL)
	}
}

// requestImage is cache-first with TTL fallback. The caller always receives
// something: fresh cache, network, stale cache, or a synthesized
// placeholder, in that order of preference.
func (r *Router) requestImage(ctx context.Context, rawURL string) *models.Response {
	store := r.stores.Image

	if entry, level, found := lookup(store, rawURL); found && entry.IsFresh() {
		r.recordHit(rawURL, models.ClassImage, level)
		return cachedResponse(entry, models.ClassImage)
	}
	r.recordMiss(rawURL, models.ClassImage)

	result, err := r.fetcher.Fetch(ctx, rawURL)
	if err == nil {
		ttl := r.rules.TTLFor(rawURL, models.ClassImage)
		store.Set(rawURL, models.NewCacheEntry(result.Body, result.ContentType, ttl))
		return networkResponse(result, models.ClassImage)
	}

	if entry, found := store.GetStale(rawURL); found {
		r.logger.Debug("Serving stale image after fetch failure", zap.String("url", rawURL), zap.Error(err))
		metrics.RecordStaleServed(string(models.ClassImage))
		return cachedResponse(entry, models.ClassImage)
	}

	r.logger.Warn("Synthesizing placeholder for failed image fetch", zap.String("url", rawURL), zap.Error(err))
	metrics.RecordPlaceholder()
	return placeholderResponse()
}

// requestAPI is network-first. A successful fetch always supersedes any
// cached entry; with no network and no cache the failure propagates,
// because API data must never be silently fabricated.
func (r *Router) requestAPI(ctx context.Context, rawURL string) (*models.Response, error) {
	store := r.stores.API

	result, err := r.fetcher.Fetch(ctx, rawURL)
	if err == nil {
		ttl := r.rules.TTLFor(rawURL, models.ClassAPI)
		store.Set(rawURL, models.NewCacheEntry(result.Body, result.ContentType, ttl))
		return networkResponse(result, models.ClassAPI), nil
	}

	if entry, found := store.GetStale(rawURL); found {
		r.logger.Debug("Serving cached API response after fetch failure", zap.String("url", rawURL), zap.Error(err))
		metrics.RecordStaleServed(string(models.ClassAPI))
		return cachedResponse(entry, models.ClassAPI), nil
	}

	return nil, fmt.Errorf("api fetch failed with no cached fallback: %w", err)
}

// requestStatic is stale-while-revalidate: a cached entry is returned
// immediately and refreshed in the background; only an uncached miss
// fetches synchronously.
func (r *Router) requestStatic(ctx context.Context, rawURL string) (*models.Response, error) {
	store := r.stores.Static

	if entry, level, found := lookup(store, rawURL); found {
		r.recordHit(rawURL, models.ClassStatic, level)
		go r.revalidate(rawURL)
		return cachedResponse(entry, models.ClassStatic), nil
	}
	r.recordMiss(rawURL, models.ClassStatic)

	result, err := r.fetcher.Fetch(ctx, rawURL)
	if err == nil {
		ttl := r.rules.TTLFor(rawURL, models.ClassStatic)
		store.Set(rawURL, models.NewCacheEntry(result.Body, result.ContentType, ttl))
		return networkResponse(result, models.ClassStatic), nil
	}

	if entry, found := store.GetStale(rawURL); found {
		metrics.RecordStaleServed(string(models.ClassStatic))
		return cachedResponse(entry, models.ClassStatic), nil
	}

	return nil, fmt.Errorf("static fetch failed with no cached fallback: %w", err)
}

// revalidate refreshes a static entry in the background. Its result only
// ever updates the store; failures are logged, never re-thrown.
func (r *Router) revalidate(rawURL string) {
	ctx, cancel := context.WithTimeout(context.Background(), revalidateTimeout)
	defer cancel()

	result, err := r.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		r.logger.Debug("Background revalidation failed", zap.String("url", rawURL), zap.Error(err))
		metrics.RecordBackgroundRefresh("error")
		return
	}

	ttl := r.rules.TTLFor(rawURL, models.ClassStatic)
	r.stores.Static.Set(rawURL, models.NewCacheEntry(result.Body, result.ContentType, ttl))
	metrics.RecordBackgroundRefresh("success")
}

// recordHit updates metrics and notifies observers of a cache hit
func (r *Router) recordHit(rawURL string, class models.ResourceClass, level string) {
	metrics.RecordCacheHit(string(class), level)
	r.bus.Publish(events.TopicCacheHit, models.CacheSignal{URL: rawURL, Class: class, Level: level})
}

// recordMiss updates metrics and notifies observers of a cache miss
func (r *Router) recordMiss(rawURL string, class models.ResourceClass) {
	metrics.RecordCacheMiss(string(class))
	r.bus.Publish(events.TopicCacheMiss, models.CacheSignal{URL: rawURL, Class: class})
}

// lookup reads through a store, using level-aware reads where the store
// supports them
func lookup(store interfaces.Store, key string) (*models.CacheEntry, string, bool) {
	if lw, ok := store.(interface {
		GetWithLevel(string) (*models.CacheEntry, string, bool)
	}); ok {
		return lw.GetWithLevel(key)
	}
	entry, found := store.Get(key)
	return entry, "memory", found
}

// cachedResponse builds a response from a stored entry
func cachedResponse(entry *models.CacheEntry, class models.ResourceClass) *models.Response {
	return &models.Response{
		Status:      200,
		ContentType: entry.ContentType,
		Body:        entry.Data,
		Class:       class,
		FromCache:   true,
		Fresh:       entry.IsFresh(),
	}
}

// networkResponse builds a response from a fresh fetch
func networkResponse(result *models.FetchResult, class models.ResourceClass) *models.Response {
	return &models.Response{
		Status:      result.Status,
		ContentType: result.ContentType,
		Body:        result.Body,
		Class:       class,
		Fresh:       true,
	}
}
