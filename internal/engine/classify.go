package engine

import (
	"bytes"
	"strings"

	"github.com/christiandoxa/kompresin/internal/models"
)

var (
	pdfSig  = []byte("%PDF")
	pngSig  = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}
	jpegSig = []byte{0xff, 0xd8, 0xff}
)

// chooseOutMode resolves the requested output mode against the input
// classification. An explicit selector wins; auto routes PDF to pdf,
// PNG to png and everything else to jpeg.
func chooseOutMode(mediaType, ext string, selector models.OutputMode) models.OutputMode {
	if selector != models.OutputAuto {
		return selector
	}
	if strings.Contains(mediaType, "pdf") || ext == "pdf" {
		return models.OutputPDF
	}
	if strings.Contains(mediaType, "png") || ext == "png" {
		return models.OutputPNG
	}
	return models.OutputJPEG
}

// isPDF checks the declared type, the extension and finally the file
// signature, so mislabeled PDFs still take the PDF path.
func isPDF(mediaType, ext string, data []byte) bool {
	if strings.Contains(mediaType, "pdf") || ext == "pdf" {
		return true
	}
	return bytes.HasPrefix(data, pdfSig)
}

// sniffKind inspects the leading bytes for known signatures.
func sniffKind(data []byte) models.FileKind {
	switch {
	case bytes.HasPrefix(data, pdfSig):
		return models.KindPDF
	case bytes.HasPrefix(data, pngSig):
		return models.KindPNG
	case bytes.HasPrefix(data, jpegSig):
		return models.KindJPEG
	default:
		return models.KindUnknown
	}
}
