package interfaces

import (
	"context"

	"go-asset-cache/internal/models"
)

//go:generate mockgen -package=mocks -source=fetcher.go -destination=mocks/fetcher.go

// Fetcher performs the actual network fetch for a resource URL
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*models.FetchResult, error)
}
