// Package engine implements the compression backend behind the gateway:
// PNG and JPEG re-encoding in process, PDF rewriting through a
// Ghostscript subprocess.
package engine

import (
	"context"
	"image"
	"strings"

	"github.com/christiandoxa/kompresin/internal/logger"
	"github.com/christiandoxa/kompresin/internal/models"
)

// Engine is the single request/response boundary the rest of the app
// talks to. Errors are deterministic (bad input, missing Ghostscript),
// never transient, so callers do not retry.
type Engine interface {
	Compress(ctx context.Context, req models.CompressionRequest) (models.EngineOutput, error)
}

// Compressor is the in-process Engine implementation.
type Compressor struct {
	log    logger.Logger
	runPDF pdfRunner
}

func New(log logger.Logger) *Compressor {
	return &Compressor{
		log:    log,
		runPDF: runGhostscript,
	}
}

func (c *Compressor) Compress(ctx context.Context, req models.CompressionRequest) (models.EngineOutput, error) {
	if len(req.SourceBytes) == 0 {
		return models.EngineOutput{OutMode: models.OutputJPEG}, nil
	}

	mediaType := strings.ToLower(req.SourceMediaType)
	ext := strings.ToLower(req.SourceExt)
	pdfInput := isPDF(mediaType, ext, req.SourceBytes)

	outMode := chooseOutMode(mediaType, ext, req.OutputMode)
	if pdfInput {
		outMode = models.OutputPDF
	} else if outMode == models.OutputPDF {
		outMode = chooseOutMode(mediaType, ext, models.OutputAuto)
	}
	if req.TransparentBackground && outMode == models.OutputJPEG && req.Kind == models.KindPNG {
		outMode = models.OutputPNG
	}

	quality := clamp(req.Quality, 1, 100)
	preset := clamp(req.Preset, 0, 2)
	targetBytes := req.TargetKB * 1024

	c.log.Debug("Engine", "compress started", map[string]interface{}{
		"out_mode":     string(outMode),
		"quality":      quality,
		"preset":       preset,
		"target_bytes": targetBytes,
		"input_bytes":  len(req.SourceBytes),
	})

	if outMode == models.OutputPDF {
		return c.compressToPDF(ctx, req.SourceBytes, quality, preset, targetBytes)
	}

	img, err := decodeImage(req.SourceBytes)
	if err != nil {
		return models.EngineOutput{}, err
	}
	img, resized := downscale(img, req.MaxSide)

	if outMode == models.OutputPNG {
		return c.compressToPNG(req, img, quality, preset, targetBytes, resized)
	}
	return c.compressToJPEG(req, img, quality, preset, targetBytes, resized)
}

func (c *Compressor) compressToPDF(ctx context.Context, data []byte, quality, preset, targetBytes int) (models.EngineOutput, error) {
	var out []byte
	var err error
	if targetBytes > 0 {
		out, err = searchToTarget(quality, targetBytes, func(q int) ([]byte, error) {
			return c.compressPDF(ctx, data, q, preset)
		})
	} else {
		out, err = c.compressPDF(ctx, data, quality, preset)
	}
	if err != nil {
		return models.EngineOutput{}, err
	}
	return models.EngineOutput{OutMode: models.OutputPDF, Bytes: out}, nil
}

func (c *Compressor) compressToPNG(req models.CompressionRequest, img *image.NRGBA, quality, preset, targetBytes int, resized bool) (models.EngineOutput, error) {
	encode := func(q int) ([]byte, error) {
		return encodePNG(img, q, preset, req.PNGMode, req.PaletteColors, req.Dithering, req.ForceQuantization)
	}

	var out []byte
	var err error
	if targetBytes > 0 {
		out, err = searchToTarget(quality, targetBytes, encode)
	} else {
		out, err = encode(quality)
	}
	if err != nil {
		return models.EngineOutput{}, err
	}

	// Re-encoding an already optimized PNG can grow it; hand back the
	// original when nothing was gained.
	if targetBytes == 0 && !resized && req.Kind == models.KindPNG && len(out) >= len(req.SourceBytes) {
		return models.EngineOutput{OutMode: models.OutputPNG, Bytes: req.SourceBytes}, nil
	}
	return models.EngineOutput{OutMode: models.OutputPNG, Bytes: out}, nil
}

func (c *Compressor) compressToJPEG(req models.CompressionRequest, img *image.NRGBA, quality, preset, targetBytes int, resized bool) (models.EngineOutput, error) {
	encode := func(q int) ([]byte, error) {
		return encodeJPEG(img, q, req.Background)
	}

	var out []byte
	var err error
	if targetBytes > 0 {
		out, err = searchToTarget(quality, targetBytes, encode)
	} else {
		out, err = encode(quality)
	}
	if err != nil {
		return models.EngineOutput{}, err
	}

	if targetBytes == 0 && !resized && req.Kind == models.KindJPEG && len(out) >= len(req.SourceBytes) {
		return models.EngineOutput{OutMode: models.OutputJPEG, Bytes: req.SourceBytes}, nil
	}
	return models.EngineOutput{OutMode: models.OutputJPEG, Bytes: out}, nil
}
