package engine

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/ericpauley/go-quantize/quantize"

	"github.com/christiandoxa/kompresin/internal/models"
	"github.com/christiandoxa/kompresin/internal/request"
)

// pngPlan is the resolved encoding strategy for one PNG output.
type pngPlan struct {
	lossless  bool
	colors    int
	dithering bool
	force     bool
}

// planPNG resolves the PNG mode against the quality slider. Auto mode
// derives palette size from quality, dithers at or below 50 and forces
// quantization below 90; palette mode honors the user's values.
func planPNG(mode models.PNGMode, quality, paletteColors int, dithering, force bool) pngPlan {
	switch mode {
	case models.PNGLossless:
		return pngPlan{lossless: true}
	case models.PNGAuto:
		return pngPlan{
			colors:    request.DerivedPaletteColors(quality),
			dithering: quality <= 50,
			force:     quality < 90,
		}
	default:
		return pngPlan{
			colors:    clamp(paletteColors, 1, 256),
			dithering: dithering,
			force:     force,
		}
	}
}

// encodePNG encodes according to the plan. When quantization is not
// forced, the quantized and lossless encodings are compared and the
// smaller one wins.
func encodePNG(img *image.NRGBA, quality, preset int, mode models.PNGMode, paletteColors int, dithering, force bool) ([]byte, error) {
	plan := planPNG(mode, quality, paletteColors, dithering, force)

	if plan.lossless {
		return encodePNGImage(img, preset)
	}

	quantized, err := encodePNGImage(quantizeImage(img, plan.colors, plan.dithering), preset)
	if err != nil {
		return nil, err
	}
	if plan.force {
		return quantized, nil
	}

	lossless, err := encodePNGImage(img, preset)
	if err != nil {
		return nil, err
	}
	if len(quantized) < len(lossless) {
		return quantized, nil
	}
	return lossless, nil
}

func encodePNGImage(img image.Image, preset int) ([]byte, error) {
	enc := png.Encoder{CompressionLevel: pngCompressionLevel(preset)}

	var buf bytes.Buffer
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("png encode: %w", err)
	}
	return optimizePNG(buf.Bytes(), preset), nil
}

func pngCompressionLevel(preset int) png.CompressionLevel {
	switch preset {
	case 0:
		return png.BestSpeed
	case 1:
		return png.DefaultCompression
	default:
		return png.BestCompression
	}
}

// quantizeImage reduces the image to at most maxColors using median-cut
// quantization, optionally with Floyd-Steinberg dithering.
func quantizeImage(img *image.NRGBA, maxColors int, dither bool) *image.Paletted {
	maxColors = clamp(maxColors, 1, 256)

	q := quantize.MedianCutQuantizer{AddTransparent: hasAlpha(img)}
	palette := q.Quantize(make([]color.Color, 0, maxColors), img)
	if len(palette) == 0 {
		palette = color.Palette{color.NRGBA{A: 255}}
	}

	dst := image.NewPaletted(img.Bounds(), palette)
	if dither {
		draw.FloydSteinberg.Draw(dst, img.Bounds(), img, image.Point{})
	} else {
		draw.Draw(dst, img.Bounds(), img, img.Bounds().Min, draw.Src)
	}
	return dst
}
