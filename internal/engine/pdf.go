package engine

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

// ghostscriptBinary is looked up on PATH; PDF compression is delegated
// to it as an external collaborator.
const ghostscriptBinary = "gs"

// pdfRunner rewrites the PDF at inPath into outPath. Split out so tests
// can substitute the Ghostscript subprocess.
type pdfRunner func(ctx context.Context, inPath, outPath string, quality, preset int) error

// compressPDF downsamples and re-encodes the images embedded in a PDF
// via Ghostscript. The rewritten document is discarded when it is not
// smaller than the input.
func (c *Compressor) compressPDF(ctx context.Context, data []byte, quality, preset int) ([]byte, error) {
	dir, err := os.MkdirTemp("", "kompresin-pdf-")
	if err != nil {
		return nil, fmt.Errorf("pdf workspace: %w", err)
	}
	defer os.RemoveAll(dir)

	inPath := filepath.Join(dir, "in.pdf")
	outPath := filepath.Join(dir, "out.pdf")
	if err := os.WriteFile(inPath, data, 0o600); err != nil {
		return nil, fmt.Errorf("pdf workspace: %w", err)
	}

	if err := c.runPDF(ctx, inPath, outPath, quality, preset); err != nil {
		return nil, err
	}

	out, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("pdf output missing: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("pdf output empty")
	}
	if len(out) >= len(data) {
		return data, nil
	}
	return out, nil
}

// runGhostscript is the default pdfRunner.
func runGhostscript(ctx context.Context, inPath, outPath string, quality, preset int) error {
	bin, err := exec.LookPath(ghostscriptBinary)
	if err != nil {
		return fmt.Errorf("ghostscript not available: %w", err)
	}

	args := ghostscriptArgs(inPath, outPath, quality, preset)
	cmd := exec.CommandContext(ctx, bin, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ghostscript: %w: %s", err, string(out))
	}
	return nil
}

// ghostscriptArgs maps quality onto a distillation profile and image
// resolution, and preset onto the downsampling filter.
func ghostscriptArgs(inPath, outPath string, quality, preset int) []string {
	quality = clamp(quality, 1, 100)

	settings := "/screen"
	switch {
	case quality >= 90:
		settings = "/prepress"
	case quality >= 70:
		settings = "/printer"
	case quality >= 40:
		settings = "/ebook"
	}

	resolution := clamp(quality*3, 72, 300)

	downsample := "/Subsample"
	switch preset {
	case 1:
		downsample = "/Average"
	case 2:
		downsample = "/Bicubic"
	}

	return []string{
		"-sDEVICE=pdfwrite",
		"-dCompatibilityLevel=1.5",
		"-dPDFSETTINGS=" + settings,
		"-dColorImageResolution=" + strconv.Itoa(resolution),
		"-dGrayImageResolution=" + strconv.Itoa(resolution),
		"-dColorImageDownsampleType=" + downsample,
		"-dGrayImageDownsampleType=" + downsample,
		"-dNOPAUSE",
		"-dQUIET",
		"-dBATCH",
		"-sOutputFile=" + outPath,
		inPath,
	}
}
