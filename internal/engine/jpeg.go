package engine

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/christiandoxa/kompresin/internal/models"
)

// encodeJPEG flattens any transparency onto the background color and
// encodes at the given quality.
func encodeJPEG(img *image.NRGBA, quality int, bg models.RGB) ([]byte, error) {
	if hasAlpha(img) {
		img = flattenOntoBackground(img, bg)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: clamp(quality, 1, 100)}); err != nil {
		return nil, fmt.Errorf("jpeg encode: %w", err)
	}
	return buf.Bytes(), nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
