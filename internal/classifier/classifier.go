package classifier

import (
	"net/url"
	"path"
	"strings"

	"go.uber.org/zap"

	"go-asset-cache/internal/config"
	"go-asset-cache/internal/models"
)

// imageExtensions are the file extensions classified as gallery/hero imagery
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".avif": true,
	".svg":  true,
}

// thumbnailSizes are the proxy size hints that get the shorter thumbnail TTL
var thumbnailSizes = map[string]bool{
	"thumbnail": true,
	"small":     true,
}

// ephemeralAPIPrefixes mark api endpoints whose payloads change within a
// session (live availability, countdowns) and get the shortest TTL
var ephemeralAPIPrefixes = []string{
	"/api/session/",
	"/api/live/",
	"/api/availability/",
}

// Classifier maps request URLs to resource classes and resolves the
// per-class TTL table. Classification is pure and total: every URL maps
// to exactly one class and there is no failure mode.
type Classifier struct {
	logger      *zap.Logger
	proxyPrefix string
	imageHosts  []string
	ttl         config.TTLConfig
}

// New creates a new Classifier instance
func New(cfg *config.Config, logger *zap.Logger) *Classifier {
	return &Classifier{
		logger:      logger,
		proxyPrefix: cfg.ImageProxy.PathPrefix,
		imageHosts:  cfg.ImageProxy.ImageHosts,
		ttl:         cfg.TTL,
	}
}

// Classify returns the resource class for a URL. The image tests run in
// priority order (proxy path, known host, extension) and win over the api
// test on overlapping paths, so /api/image-proxy/... classifies as image.
// Everything unmatched defaults to static.
func (c *Classifier) Classify(rawURL string) models.ResourceClass {
	urlPath, host := splitURL(rawURL)

	if strings.HasPrefix(urlPath, c.proxyPrefix) {
		return models.ClassImage
	}
	for _, suffix := range c.imageHosts {
		if host != "" && strings.HasSuffix(host, suffix) {
			return models.ClassImage
		}
	}
	if imageExtensions[strings.ToLower(path.Ext(urlPath))] {
		return models.ClassImage
	}

	if strings.HasPrefix(urlPath, "/api/") {
		return models.ClassAPI
	}

	return models.ClassStatic
}

// TTLFor resolves the freshness window for a URL of the given class.
// The stale window is a tenth of the fresh TTL.
func (c *Classifier) TTLFor(rawURL string, class models.ResourceClass) models.TTL {
	var fresh = c.ttl.Static.Std()

	switch class {
	case models.ClassImage:
		if c.isThumbnail(rawURL) {
			fresh = c.ttl.Thumbnail.Std()
		} else {
			fresh = c.ttl.FullImage.Std()
		}
	case models.ClassAPI:
		if isEphemeralAPI(rawURL) {
			fresh = c.ttl.SessionEphemeral.Std()
		} else {
			fresh = c.ttl.API.Std()
		}
	}

	return models.TTL{Fresh: fresh, Stale: fresh / 10}
}

// isThumbnail checks the proxy size hint in the URL query
func (c *Classifier) isThumbnail(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return thumbnailSizes[parsed.Query().Get("size")]
}

// isEphemeralAPI matches api paths whose responses only live for a session
func isEphemeralAPI(rawURL string) bool {
	urlPath, _ := splitURL(rawURL)
	for _, prefix := range ephemeralAPIPrefixes {
		if strings.HasPrefix(urlPath, prefix) {
			return true
		}
	}
	return false
}

// splitURL extracts path and host, degrading gracefully on unparsable
// input so classification stays total
func splitURL(rawURL string) (urlPath, host string) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
			return rawURL[:i], ""
		}
		return rawURL, ""
	}
	return parsed.Path, parsed.Hostname()
}
