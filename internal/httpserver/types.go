package httpserver

import (
	"go-asset-cache/internal/models"
	"go-asset-cache/internal/progressive"
)

// ResourceRequest asks the router for one URL
type ResourceRequest struct {
	URL string `json:"url"`
}

// ResourceResponse carries the routed response; Body is base64 over JSON
type ResourceResponse struct {
	Success     bool   `json:"success"`
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
	Class       string `json:"class"`
	FromCache   bool   `json:"from_cache"`
	Fresh       bool   `json:"fresh"`
	Synthetic   bool   `json:"synthetic"`
}

// NavigateRequest reports a completed page navigation
type NavigateRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ScrollRequest reports a scroll-position update
type ScrollRequest struct {
	Page     string   `json:"page"`
	Depth    float64  `json:"depth"`
	Images   []string `json:"images"`
	NextPage string   `json:"next_page,omitempty"`
}

// ScrollResponse reports how many prefetches the update triggered
type ScrollResponse struct {
	Success bool `json:"success"`
	Issued  int  `json:"issued"`
}

// AssignmentsRequest carries the available image pool
type AssignmentsRequest struct {
	Pool []string `json:"pool"`
}

// AssignmentsResponse maps page slots to image ids
type AssignmentsResponse struct {
	Success     bool              `json:"success"`
	Assignments map[string]string `json:"assignments"`
}

// ProxyURLRequest asks for a rate-limited image proxy URL
type ProxyURLRequest struct {
	FileID  string `json:"file_id"`
	Size    string `json:"size,omitempty"`
	Quality int    `json:"quality,omitempty"`
}

// ProxyURLResponse returns the proxy URL and the freshness check result
type ProxyURLResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
	Cached  bool   `json:"cached"`
}

// RenderRequest enters an image into the progressive pipeline
type RenderRequest struct {
	Ref    string             `json:"ref"`
	Source progressive.Source `json:"source"`
}

// PageReadyRequest triggers a warming pass
type PageReadyRequest struct {
	Speculative []string `json:"speculative,omitempty"`
}

// PageReadyResponse reports whether this trigger started a pass
type PageReadyResponse struct {
	Success bool   `json:"success"`
	Started bool   `json:"started"`
	State   string `json:"state"`
}

// ConnectionRequest reports the page's current connection profile
type ConnectionRequest struct {
	Profile models.ConnectionProfile `json:"profile"`
}

// MetricRequest reports one load-performance sample from the page
type MetricRequest struct {
	Kind  models.MetricKind `json:"kind"`
	Value float64           `json:"value"`
}
