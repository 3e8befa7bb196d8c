package models

// ImageLoadCompleted is emitted by the progressive loader when the full
// resolution image has been painted
type ImageLoadCompleted struct {
	URL          string `json:"url"`
	LoadTimeMs   int64  `json:"load_time_ms"`
	IsFirstImage bool   `json:"is_first_image"`
}

// CacheSignal is emitted by the router on every hit or miss
type CacheSignal struct {
	URL   string        `json:"url"`
	Class ResourceClass `json:"class"`
	Level string        `json:"level,omitempty"` // memory or persistent, hits only
}

// NavigationUpdated is emitted after a navigation pattern write
type NavigationUpdated struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Frequency int    `json:"frequency"`
}
