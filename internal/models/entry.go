package models

import "time"

// TTL represents cache time-to-live configuration
type TTL struct {
	Fresh time.Duration // How long the data is considered fresh
	Stale time.Duration // How long stale data can be served (stale-if-error)
}

// CacheEntry is a stored response with its freshness window. Entries are
// never mutated in place; a refresh replaces the entry wholesale.
type CacheEntry struct {
	Data        []byte `json:"data"`
	ContentType string `json:"content_type"`
	CreatedAt   int64  `json:"created_at"`
	StaleAt     int64  `json:"stale_at"`
	ExpiresAt   int64  `json:"expires_at"`
}

// IsFresh returns true while the entry is within its fresh TTL
func (e *CacheEntry) IsFresh() bool {
	return time.Now().Unix() < e.StaleAt
}

// IsExpired returns true once the entry is beyond its stale window
func (e *CacheEntry) IsExpired() bool {
	return time.Now().Unix() >= e.ExpiresAt
}

// NewCacheEntry builds an entry timestamped now for the given TTL window
func NewCacheEntry(data []byte, contentType string, ttl TTL) CacheEntry {
	now := time.Now().Unix()
	return CacheEntry{
		Data:        data,
		ContentType: contentType,
		CreatedAt:   now,
		StaleAt:     now + int64(ttl.Fresh.Seconds()),
		ExpiresAt:   now + int64(ttl.Fresh.Seconds()) + int64(ttl.Stale.Seconds()),
	}
}
