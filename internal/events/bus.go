package events

import (
	"sync"

	"go.uber.org/zap"
)

// Topics published by the pipeline
const (
	TopicImageLoaded = "image_loaded"
	TopicCacheHit    = "cache_hit"
	TopicCacheMiss   = "cache_miss"
	TopicNavigation  = "navigation_updated"
)

// Bus is a small in-process pub/sub surface connecting the pipeline to its
// passive observers. Publish never blocks: a subscriber that cannot keep up
// loses events rather than stalling the request path.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string][]chan interface{}
	logger *zap.Logger
}

// NewBus creates a new event bus
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		subs:   make(map[string][]chan interface{}),
		logger: logger,
	}
}

// Subscribe registers a buffered channel for a topic and returns it.
// The caller owns draining; the bus never closes subscriber channels.
func (b *Bus) Subscribe(topic string, buffer int) <-chan interface{} {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan interface{}, buffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[topic] = append(b.subs[topic], ch)

	return ch
}

// Publish delivers a payload to all subscribers of a topic without blocking
func (b *Bus) Publish(topic string, payload interface{}) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs[topic] {
		select {
		case ch <- payload:
		default:
			b.logger.Debug("Dropping event for slow subscriber", zap.String("topic", topic))
		}
	}
}
