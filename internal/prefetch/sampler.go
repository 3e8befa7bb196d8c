package prefetch

import (
	"sync"

	"go-asset-cache/internal/interfaces"
	"go-asset-cache/internal/models"
)

// Ensure ReportedSampler implements interfaces.ConnectionSampler
var _ interfaces.ConnectionSampler = (*ReportedSampler)(nil)

// ReportedSampler holds the most recent connection profile reported by the
// page process. Sample always returns the current best estimate; nothing
// is cached or versioned. Before any report arrives it assumes a 4g-class
// connection, matching platforms without a network information surface.
type ReportedSampler struct {
	mu      sync.RWMutex
	profile models.ConnectionProfile
}

// NewReportedSampler creates a sampler with the optimistic default profile
func NewReportedSampler() *ReportedSampler {
	return &ReportedSampler{
		profile: models.ConnectionProfile{
			EffectiveType: models.Connection4G,
			DownlinkMbps:  10,
			RTTMs:         50,
		},
	}
}

// Update records a newly reported profile
func (s *ReportedSampler) Update(profile models.ConnectionProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = profile
}

// Sample returns the current profile
func (s *ReportedSampler) Sample() models.ConnectionProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}
