// Package gateway adapts raw engine output into presentable result
// artifacts: media type, suggested filename and size accounting.
package gateway

import (
	"context"
	"strings"

	"github.com/christiandoxa/kompresin/internal/engine"
	"github.com/christiandoxa/kompresin/internal/logger"
	"github.com/christiandoxa/kompresin/internal/models"
)

// Gateway drives a single engine invocation per run. Engine failures
// are propagated unchanged; there is no retry because the engine never
// fails transiently.
type Gateway struct {
	engine engine.Engine
	log    logger.Logger
}

func New(eng engine.Engine, log logger.Logger) *Gateway {
	return &Gateway{engine: eng, log: log}
}

// Invoke runs the engine once and maps its output into a
// CompressionResult for the given source file.
func (g *Gateway) Invoke(ctx context.Context, req models.CompressionRequest, meta models.FileMeta) (models.CompressionResult, error) {
	out, err := g.engine.Compress(ctx, req)
	if err != nil {
		g.log.Error("Gateway", err, map[string]interface{}{
			"file": meta.Name,
		})
		return models.CompressionResult{}, err
	}

	result := models.CompressionResult{
		Bytes:         out.Bytes,
		MediaType:     MediaTypeFor(out.OutMode),
		SuggestedName: SuggestedName(meta.Name, out.OutMode),
		OriginalSize:  int64(len(req.SourceBytes)),
		OutputSize:    int64(len(out.Bytes)),
	}

	g.log.Info("Gateway", "compression finished", map[string]interface{}{
		"file":          meta.Name,
		"out_mode":      string(out.OutMode),
		"original_size": result.OriginalSize,
		"output_size":   result.OutputSize,
		"saved_percent": result.SavedPercent(),
	})
	return result, nil
}

// MediaTypeFor maps the engine's out-mode tag onto a media type.
// Anything that is not pdf or png is jpeg output.
func MediaTypeFor(mode models.OutputMode) string {
	switch mode {
	case models.OutputPDF:
		return models.MediaTypePDF
	case models.OutputPNG:
		return models.MediaTypePNG
	default:
		return models.MediaTypeJPEG
	}
}

// SuggestedName derives the download filename from the original name
// and the produced out-mode: PDFs become name-compressed.pdf, images
// swap their extension for the encoded format.
func SuggestedName(originalName string, mode models.OutputMode) string {
	if mode == models.OutputPDF {
		return stripSuffixFold(originalName, ".pdf") + "-compressed.pdf"
	}

	base := originalName
	for _, suffix := range []string{".png", ".jpg", ".jpeg", ".pdf"} {
		if trimmed := stripSuffixFold(base, suffix); trimmed != base {
			base = trimmed
			break
		}
	}

	if mode == models.OutputPNG {
		return base + ".png"
	}
	return base + ".jpg"
}

func stripSuffixFold(s, suffix string) string {
	if len(s) >= len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix) {
		return s[:len(s)-len(suffix)]
	}
	return s
}
