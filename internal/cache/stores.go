package cache

import (
	"go-asset-cache/internal/interfaces"
	"go-asset-cache/internal/models"
)

// Stores bundles the three class-partitioned cache stores. Each class has
// its own isolated store so policies and eviction never interfere across
// classes. The router is the only writer.
type Stores struct {
	Static interfaces.Store
	Image  interfaces.Store
	API    interfaces.Store
}

// NewStores creates the bundle from per-class stores
func NewStores(static, image, api interfaces.Store) *Stores {
	return &Stores{
		Static: static,
		Image:  image,
		API:    api,
	}
}

// ForClass returns the store owning the given resource class
func (s *Stores) ForClass(class models.ResourceClass) interfaces.Store {
	switch class {
	case models.ClassImage:
		return s.Image
	case models.ClassAPI:
		return s.API
	default:
		return s.Static
	}
}
