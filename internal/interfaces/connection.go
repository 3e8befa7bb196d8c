package interfaces

import (
	"go-asset-cache/internal/models"
)

//go:generate mockgen -package=mocks -source=connection.go -destination=mocks/connection.go

// ConnectionSampler reports the current best estimate of network quality.
// Implementations must be cheap to call; the profile is sampled at read
// time and never cached by consumers.
type ConnectionSampler interface {
	Sample() models.ConnectionProfile
}
