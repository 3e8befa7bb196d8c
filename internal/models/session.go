package models

import (
	"fmt"
	"time"
)

// NavigationPattern records how often one page led to another.
// Keyed by (From, To); Frequency is incremented in place, never duplicated.
type NavigationPattern struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Frequency int       `json:"frequency"`
	LastUsed  time.Time `json:"last_used"`
}

// ImageCacheRecord is the application-level freshness record for a proxied
// image, independent of the router's own cache TTLs
type ImageCacheRecord struct {
	FileID    string    `json:"file_id"`
	Timestamp time.Time `json:"timestamp"`
}

// MetricKind identifies a load-performance sample
type MetricKind string

const (
	MetricLCP       MetricKind = "lcp"
	MetricFID       MetricKind = "fid"
	MetricCLS       MetricKind = "cls"
	MetricImageLoad MetricKind = "image_load"
)

// Valid reports whether the kind is one of the known sample kinds
func (k MetricKind) Valid() error {
	switch k {
	case MetricLCP, MetricFID, MetricCLS, MetricImageLoad:
		return nil
	}
	return fmt.Errorf("unknown metric kind '%s'", string(k))
}

// LoadMetricSample is one append-only performance observation
type LoadMetricSample struct {
	Kind      MetricKind `json:"kind"`
	Value     float64    `json:"value"`
	Timestamp time.Time  `json:"timestamp"`
}
