package progressive

import (
	"go.uber.org/zap"

	"go-asset-cache/internal/interfaces"
)

// LogRenderer records render stages in the log. It stands in for a real
// view layer when the pipeline runs headless; the page process observes
// stage transitions through the /render call's side effects on the cache.
type LogRenderer struct {
	logger *zap.Logger
}

var _ interfaces.Renderer = (*LogRenderer)(nil)

// NewLogRenderer creates a new LogRenderer instance
func NewLogRenderer(logger *zap.Logger) *LogRenderer {
	return &LogRenderer{logger: logger}
}

// ShowSkeleton records the skeleton stage
func (r *LogRenderer) ShowSkeleton(ref string, aspectRatio float64, tint string) {
	r.logger.Debug("Render stage: skeleton",
		zap.String("ref", ref),
		zap.Float64("aspect_ratio", aspectRatio),
		zap.String("tint", tint))
}

// ShowPreview records the preview stage
func (r *LogRenderer) ShowPreview(ref string, thumbnail []byte) {
	r.logger.Debug("Render stage: preview",
		zap.String("ref", ref),
		zap.Int("thumbnail_bytes", len(thumbnail)))
}

// ShowImage records the full image stage
func (r *LogRenderer) ShowImage(ref string, data []byte, contentType string) {
	r.logger.Debug("Render stage: full image",
		zap.String("ref", ref),
		zap.Int("bytes", len(data)),
		zap.String("content_type", contentType))
}
