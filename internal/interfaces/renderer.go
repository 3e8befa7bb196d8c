package interfaces

//go:generate mockgen -package=mocks -source=renderer.go -destination=mocks/renderer.go

// Renderer is the view-layer surface the progressive loader paints into.
// Calls for a given ref always arrive in skeleton, preview, image order;
// a stage is skipped entirely when its precondition is missing.
type Renderer interface {
	// ShowSkeleton paints a placeholder sized to the aspect ratio and
	// tinted with a dominant-color hex value
	ShowSkeleton(ref string, aspectRatio float64, tint string)

	// ShowPreview paints a scaled-down blurred thumbnail
	ShowPreview(ref string, thumbnail []byte)

	// ShowImage paints the full resolution image and removes prior layers
	ShowImage(ref string, data []byte, contentType string)
}
