package models

// ConnectionClass mirrors the coarse effective-type buckets reported by the
// client platform's network information surface
type ConnectionClass string

const (
	ConnectionSlow2G ConnectionClass = "slow-2g"
	Connection2G     ConnectionClass = "2g"
	Connection3G     ConnectionClass = "3g"
	Connection4G     ConnectionClass = "4g"
)

// ConnectionProfile is the current best estimate of network quality.
// It is sampled at read time and never cached or versioned.
type ConnectionProfile struct {
	EffectiveType ConnectionClass `json:"effective_type"`
	DownlinkMbps  float64         `json:"downlink_mbps"`
	RTTMs         int             `json:"rtt_ms"`
	DataSaver     bool            `json:"data_saver"`
}

// PrefetchBudget bounds speculative fetch volume and concurrency.
// Derived from a ConnectionProfile, never stored.
type PrefetchBudget struct {
	MaxImages     int `json:"max_images"`
	MaxConcurrent int `json:"max_concurrent"`
}

// IsZero reports whether the budget forbids all prefetching
func (b PrefetchBudget) IsZero() bool {
	return b.MaxImages <= 0 || b.MaxConcurrent <= 0
}
