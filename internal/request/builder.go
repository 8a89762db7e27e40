// Package request turns raw option-panel state into validated engine
// requests. Everything here is a pure mapping: out-of-range values are
// clamped, never rejected, so building a request cannot fail.
package request

import (
	"math"
	"path/filepath"
	"strings"

	"github.com/christiandoxa/kompresin/internal/models"
)

// Build assembles an immutable CompressionRequest from the selected
// file and the current option snapshot.
func Build(sourceBytes []byte, meta models.FileMeta, opts models.RawOptions) models.CompressionRequest {
	mediaType := strings.ToLower(meta.MediaType)
	ext := Extension(meta.Name)

	req := models.CompressionRequest{
		SourceBytes:     sourceBytes,
		SourceMediaType: mediaType,
		SourceExt:       ext,
		Kind:            Classify(mediaType, ext),

		OutputMode: normalizeOutputMode(opts.OutputMode),
		Quality:    clampInt(opts.Quality, 1, 100),
		Preset:     clampInt(opts.Preset, 0, 2),
		MaxSide:    maxInt(opts.MaxSide, 0),
		TargetKB:   maxInt(opts.TargetKB, 0),

		Background: models.RGB{
			R: clampInt(opts.Background.R, 0, 255),
			G: clampInt(opts.Background.G, 0, 255),
			B: clampInt(opts.Background.B, 0, 255),
		},
		PNGMode:               normalizePNGMode(opts.PNGMode),
		Dithering:             opts.Dithering,
		ForceQuantization:     opts.ForceQuantization,
		TransparentBackground: opts.TransparentBackground,
	}

	if req.PNGMode == models.PNGAuto {
		req.PaletteColors = DerivedPaletteColors(req.Quality)
	} else {
		req.PaletteColors = clampInt(opts.PaletteColors, 1, 256)
	}

	return req
}

// DerivedPaletteColors maps the quality slider onto a palette size for
// automatic PNG mode. Monotonic in quality; round half up, so quality 1
// yields 10 colors and quality 100 the full 256.
func DerivedPaletteColors(quality int) int {
	q := clampInt(quality, 1, 100)
	colors := int(math.Floor(8 + float64(q)/100*248 + 0.5))
	return clampInt(colors, 1, 256)
}

// Classify determines the input kind from the declared media type,
// falling back to the filename extension. Unrecognized combinations are
// KindUnknown, which disables the kind-specific option panels.
func Classify(mediaType, ext string) models.FileKind {
	mediaType = strings.ToLower(mediaType)
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))

	switch {
	case strings.Contains(mediaType, "pdf") || ext == "pdf":
		return models.KindPDF
	case strings.Contains(mediaType, "png") || ext == "png":
		return models.KindPNG
	case strings.Contains(mediaType, "jpg") || strings.Contains(mediaType, "jpeg") ||
		ext == "jpg" || ext == "jpeg":
		return models.KindJPEG
	default:
		return models.KindUnknown
	}
}

// Extension returns the lowercase filename extension without the dot,
// or "" when the name has none.
func Extension(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	return strings.TrimPrefix(ext, ".")
}

func normalizeOutputMode(mode models.OutputMode) models.OutputMode {
	switch mode {
	case models.OutputPNG, models.OutputJPEG, models.OutputPDF:
		return mode
	default:
		return models.OutputAuto
	}
}

func normalizePNGMode(mode models.PNGMode) models.PNGMode {
	switch mode {
	case models.PNGLossless, models.PNGPalette:
		return mode
	default:
		return models.PNGAuto
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(v, lo int) int {
	if v < lo {
		return lo
	}
	return v
}
