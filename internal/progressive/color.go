package progressive

import (
	"bytes"
	"fmt"
	"image"

	// Decoders for the formats the gallery serves
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// NeutralTint is the skeleton tint used when extraction fails
const NeutralTint = "#808080"

// sampleGrid is the downsampling resolution for dominant-color extraction
const sampleGrid = 8

// DominantColor downsamples an image to a small fixed grid, averages the
// channel values, and returns the result as a hex color. Callers fall back
// to NeutralTint on error.
func DominantColor(data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return "", fmt.Errorf("empty image bounds")
	}

	var rSum, gSum, bSum, count uint64
	for gy := 0; gy < sampleGrid; gy++ {
		for gx := 0; gx < sampleGrid; gx++ {
			x := bounds.Min.X + gx*bounds.Dx()/sampleGrid
			y := bounds.Min.Y + gy*bounds.Dy()/sampleGrid

			r, g, b, _ := img.At(x, y).RGBA()
			rSum += uint64(r >> 8)
			gSum += uint64(g >> 8)
			bSum += uint64(b >> 8)
			count++
		}
	}

	return fmt.Sprintf("#%02x%02x%02x", rSum/count, gSum/count, bSum/count), nil
}
