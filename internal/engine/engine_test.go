package engine

import (
	"bytes"
	"context"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"testing"

	"github.com/christiandoxa/kompresin/internal/logger"
	"github.com/christiandoxa/kompresin/internal/models"
)

func pngRequest(t *testing.T, mode models.OutputMode) models.CompressionRequest {
	t.Helper()
	return models.CompressionRequest{
		SourceBytes:     encodeTestPNG(t, gradientNRGBA(32, 24)),
		SourceMediaType: "image/png",
		SourceExt:       "png",
		Kind:            models.KindPNG,
		OutputMode:      mode,
		Quality:         80,
		Preset:          1,
		PNGMode:         models.PNGLossless,
		PaletteColors:   256,
		Background:      models.White,
	}
}

func TestCompressEmptyInput(t *testing.T) {
	c := New(logger.Nop{})

	out, err := c.Compress(context.Background(), models.CompressionRequest{})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if out.OutMode != models.OutputJPEG {
		t.Errorf("OutMode = %q, want jpeg", out.OutMode)
	}
	if len(out.Bytes) != 0 {
		t.Errorf("Bytes = %d, want empty", len(out.Bytes))
	}
}

func TestCompressAutoRoutesPNG(t *testing.T) {
	c := New(logger.Nop{})

	out, err := c.Compress(context.Background(), pngRequest(t, models.OutputAuto))
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if out.OutMode != models.OutputPNG {
		t.Errorf("OutMode = %q, want png", out.OutMode)
	}
	if _, err := png.Decode(bytes.NewReader(out.Bytes)); err != nil {
		t.Fatalf("output not decodable as PNG: %v", err)
	}
}

func TestCompressPDFSelectorOnImageReAutos(t *testing.T) {
	c := New(logger.Nop{})

	// pdf output is only reachable for pdf input; for images the
	// selector falls back to the auto choice
	out, err := c.Compress(context.Background(), pngRequest(t, models.OutputPDF))
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if out.OutMode != models.OutputPNG {
		t.Errorf("OutMode = %q, want png fallback", out.OutMode)
	}
}

func TestCompressJPEGSelector(t *testing.T) {
	c := New(logger.Nop{})

	out, err := c.Compress(context.Background(), pngRequest(t, models.OutputJPEG))
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if out.OutMode != models.OutputJPEG {
		t.Errorf("OutMode = %q, want jpeg", out.OutMode)
	}
	if _, err := jpeg.Decode(bytes.NewReader(out.Bytes)); err != nil {
		t.Fatalf("output not decodable as JPEG: %v", err)
	}
}

func TestCompressTransparentPNGStaysPNGUnderJPEGSelector(t *testing.T) {
	c := New(logger.Nop{})

	img := gradientNRGBA(16, 16)
	img.SetNRGBA(0, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 0})

	req := pngRequest(t, models.OutputJPEG)
	req.SourceBytes = encodeTestPNG(t, img)
	req.TransparentBackground = true

	out, err := c.Compress(context.Background(), req)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if out.OutMode != models.OutputPNG {
		t.Errorf("OutMode = %q, want png to preserve transparency", out.OutMode)
	}
}

func TestCompressKeepsOriginalWhenNotSmaller(t *testing.T) {
	c := New(logger.Nop{})

	// run the pipeline once, then feed its own output back in; the
	// second pass cannot improve and must hand back its input bytes
	first, err := c.Compress(context.Background(), pngRequest(t, models.OutputPNG))
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}

	req := pngRequest(t, models.OutputPNG)
	req.SourceBytes = first.Bytes

	second, err := c.Compress(context.Background(), req)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if !bytes.Equal(second.Bytes, first.Bytes) {
		t.Error("re-compressing already-optimal output must return it unchanged")
	}
}

func TestCompressMaxSideResizes(t *testing.T) {
	c := New(logger.Nop{})

	req := pngRequest(t, models.OutputPNG)
	req.MaxSide = 16

	out, err := c.Compress(context.Background(), req)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}

	decoded, err := png.Decode(bytes.NewReader(out.Bytes))
	if err != nil {
		t.Fatal(err)
	}
	if b := decoded.Bounds(); b.Dx() != 16 || b.Dy() != 12 {
		t.Errorf("bounds = %v, want 16x12", b)
	}
}

func TestCompressMislabeledPDFTakesPDFPath(t *testing.T) {
	input := []byte("%PDF-1.4 pretend document with enough padding to shrink........")
	want := []byte("%PDF-1.4 shrunk")

	c := &Compressor{
		log: logger.Nop{},
		runPDF: func(_ context.Context, _, outPath string, _, _ int) error {
			return os.WriteFile(outPath, want, 0o600)
		},
	}

	req := models.CompressionRequest{
		SourceBytes:     input,
		SourceMediaType: "application/octet-stream",
		SourceExt:       "bin",
		Kind:            models.KindUnknown,
		OutputMode:      models.OutputAuto,
		Quality:         50,
		Preset:          1,
	}

	out, err := c.Compress(context.Background(), req)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if out.OutMode != models.OutputPDF {
		t.Errorf("OutMode = %q, want pdf", out.OutMode)
	}
	if !bytes.Equal(out.Bytes, want) {
		t.Errorf("Bytes = %q, want %q", out.Bytes, want)
	}
}

func TestCompressPDFWithTargetProbes(t *testing.T) {
	input := bytes.Repeat([]byte("%PDF-1.4 page data "), 200)

	qualities := []int{}
	c := &Compressor{
		log: logger.Nop{},
		runPDF: func(_ context.Context, _, outPath string, quality, _ int) error {
			qualities = append(qualities, quality)
			// size shrinks with quality so the search can converge
			return os.WriteFile(outPath, bytes.Repeat([]byte("x"), quality*20), 0o600)
		},
	}

	req := models.CompressionRequest{
		SourceBytes:     input,
		SourceMediaType: "application/pdf",
		SourceExt:       "pdf",
		Kind:            models.KindPDF,
		OutputMode:      models.OutputAuto,
		Quality:         90,
		Preset:          1,
		TargetKB:        1,
	}

	out, err := c.Compress(context.Background(), req)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if out.OutMode != models.OutputPDF {
		t.Errorf("OutMode = %q, want pdf", out.OutMode)
	}
	if len(out.Bytes) > 1024 {
		t.Errorf("output %d bytes, exceeds 1 KB target", len(out.Bytes))
	}
	if len(qualities) < 2 {
		t.Errorf("expected multiple probes, got %v", qualities)
	}
}
