package router

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"go-asset-cache/internal/interfaces"
	"go-asset-cache/internal/models"
)

// Ensure HTTPFetcher implements interfaces.Fetcher
var _ interfaces.Fetcher = (*HTTPFetcher)(nil)

// HTTPFetcher performs plain HTTP GETs against the origin. Relative paths
// are resolved against the configured base URL; absolute URLs pass through.
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPFetcher creates an HTTPFetcher with the given origin and timeout
func NewHTTPFetcher(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Fetch issues a GET and returns the response body. Any transport error or
// non-2xx status is reported as an error; callers apply their per-class
// fallback.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*models.FetchResult, error) {
	target := rawURL
	if strings.HasPrefix(rawURL, "/") {
		target = f.baseURL + rawURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", target, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch failed for %s: %w", target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, target)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body for %s: %w", target, err)
	}

	return &models.FetchResult{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}
