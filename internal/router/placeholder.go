package router

import "go-asset-cache/internal/models"

// placeholderSVG is the neutral stand-in shown when an image cannot be
// fetched and nothing cached remains. Synthesized responses are never
// written into the cache stores.
var placeholderSVG = []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="400" height="300" viewBox="0 0 400 300"><rect width="400" height="300" fill="#e0e0e0"/><text x="200" y="150" text-anchor="middle" fill="#9e9e9e" font-family="sans-serif" font-size="16">Image unavailable</text></svg>`)

// placeholderResponse synthesizes the last-resort image response
func placeholderResponse() *models.Response {
	return &models.Response{
		Status:      200,
		ContentType: "image/svg+xml",
		Body:        placeholderSVG,
		Class:       models.ClassImage,
		Synthetic:   true,
	}
}
