package server

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
)

const (
	// maxImageDimension caps the longest side before EPS upload; anything
	// larger just slows the upload down.
	maxImageDimension = 1600

	jpegQuality = 90
)

// processImage validates uploaded bytes as an image, downscales anything with
// a side over maxImageDimension and re-encodes as JPEG. Invalid input returns
// an error the caller should treat as a bad request.
func processImage(data []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid image file: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if longest := max(width, height); longest > maxImageDimension {
		scale := float64(maxImageDimension) / float64(longest)
		newWidth := int(float64(width) * scale)
		newHeight := int(float64(height) * scale)

		scaled := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Over, nil)
		img = scaled

		log.Info().
			Str("format", format).
			Int("width", newWidth).
			Int("height", newHeight).
			Msg("downscaled image")
	}

	var out bytes.Buffer
	if err := jpeg.Encode(&out, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return out.Bytes(), nil
}
