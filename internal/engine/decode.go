package engine

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	_ "image/jpeg"
	_ "image/png"

	exif "github.com/dsoprea/go-exif/v3"
	"github.com/nfnt/resize"

	"github.com/christiandoxa/kompresin/internal/models"
)

// decodeImage decodes PNG or JPEG input into NRGBA pixels with any EXIF
// orientation already baked in.
func decodeImage(data []byte) (*image.NRGBA, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}

	nrgba := toNRGBA(img)
	if orient := readOrientation(data); orient > 1 {
		nrgba = applyOrientation(nrgba, orient)
	}
	return nrgba, nil
}

// readOrientation extracts the EXIF orientation tag, returning 1 (top
// left) when absent or unreadable.
func readOrientation(data []byte) int {
	tags, _, err := exif.GetFlatExifDataUniversalSearchWithReadSeeker(bytes.NewReader(data), nil, true)
	if err != nil {
		return 1
	}

	for _, tag := range tags {
		if tag.TagName != "Orientation" {
			continue
		}
		if values, ok := tag.Value.([]uint16); ok && len(values) > 0 {
			v := int(values[0])
			if v >= 1 && v <= 8 {
				return v
			}
		}
	}
	return 1
}

// applyOrientation normalizes the eight EXIF orientations to top-left.
func applyOrientation(src *image.NRGBA, orientation int) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	var dst *image.NRGBA
	switch orientation {
	case 5, 6, 7, 8:
		dst = image.NewNRGBA(image.Rect(0, 0, h, w))
	default:
		dst = image.NewNRGBA(image.Rect(0, 0, w, h))
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := src.NRGBAAt(b.Min.X+x, b.Min.Y+y)
			switch orientation {
			case 2: // mirror horizontal
				dst.SetNRGBA(w-1-x, y, c)
			case 3: // rotate 180
				dst.SetNRGBA(w-1-x, h-1-y, c)
			case 4: // mirror vertical
				dst.SetNRGBA(x, h-1-y, c)
			case 5: // mirror horizontal + rotate 270 CW
				dst.SetNRGBA(y, x, c)
			case 6: // rotate 90 CW
				dst.SetNRGBA(h-1-y, x, c)
			case 7: // mirror horizontal + rotate 90 CW
				dst.SetNRGBA(h-1-y, w-1-x, c)
			case 8: // rotate 270 CW
				dst.SetNRGBA(y, w-1-x, c)
			default:
				dst.SetNRGBA(x, y, c)
			}
		}
	}
	return dst
}

func toNRGBA(img image.Image) *image.NRGBA {
	if nrgba, ok := img.(*image.NRGBA); ok {
		return nrgba
	}

	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(x-b.Min.X, y-b.Min.Y, img.At(x, y))
		}
	}
	return dst
}

// scaleToMaxSide computes the target dimensions for a longest-side
// limit. maxSide 0 disables resizing; results never drop below 1px.
func scaleToMaxSide(w, h, maxSide int) (int, int) {
	if maxSide == 0 {
		return w, h
	}
	m := w
	if h > m {
		m = h
	}
	if m <= maxSide {
		return w, h
	}

	scale := float64(maxSide) / float64(m)
	newW := int(math.Max(math.Round(float64(w)*scale), 1))
	newH := int(math.Max(math.Round(float64(h)*scale), 1))
	return newW, newH
}

// downscale applies the longest-side limit with Lanczos3 resampling,
// reporting whether the image actually changed size.
func downscale(img *image.NRGBA, maxSide int) (*image.NRGBA, bool) {
	b := img.Bounds()
	newW, newH := scaleToMaxSide(b.Dx(), b.Dy(), maxSide)
	if newW == b.Dx() && newH == b.Dy() {
		return img, false
	}

	resized := resize.Resize(uint(newW), uint(newH), img, resize.Lanczos3)
	return toNRGBA(resized), true
}

// flattenOntoBackground composites translucent pixels onto an opaque
// background using integer math with rounding: out = s*a + bg*(255-a).
func flattenOntoBackground(img *image.NRGBA, bg models.RGB) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(b)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			switch c.A {
			case 255:
				dst.SetNRGBA(x, y, c)
			case 0:
				dst.SetNRGBA(x, y, nrgbaOpaque(uint8(bg.R), uint8(bg.G), uint8(bg.B)))
			default:
				dst.SetNRGBA(x, y, nrgbaOpaque(
					blendChannel(c.R, c.A, uint8(bg.R)),
					blendChannel(c.G, c.A, uint8(bg.G)),
					blendChannel(c.B, c.A, uint8(bg.B)),
				))
			}
		}
	}
	return dst
}

func nrgbaOpaque(r, g, b uint8) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

func blendChannel(src, alpha, bg uint8) uint8 {
	s, a, b := uint32(src), uint32(alpha), uint32(bg)
	return uint8((s*a + b*(255-a) + 127) / 255)
}

// hasAlpha reports whether any pixel is not fully opaque.
func hasAlpha(img *image.NRGBA) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 3; i < len(row); i += 4 {
			if row[i] != 255 {
				return true
			}
		}
	}
	return false
}
