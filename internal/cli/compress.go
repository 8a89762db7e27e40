package cli

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/christiandoxa/kompresin/internal/engine"
	"github.com/christiandoxa/kompresin/internal/gateway"
	"github.com/christiandoxa/kompresin/internal/logger"
	"github.com/christiandoxa/kompresin/internal/models"
	"github.com/christiandoxa/kompresin/internal/request"
)

type compressFlags struct {
	output      string
	quality     int
	preset      int
	maxSide     int
	targetKB    int
	pngMode     string
	colors      int
	dither      bool
	forceColors bool
	transparent bool
	background  string
	outPath     string
}

func newCompressCommand() *cobra.Command {
	flags := &compressFlags{}

	cmd := &cobra.Command{
		Use:   "compress <file>",
		Short: "Compress a single file without the GUI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompress(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "f", "auto", "output format: auto, png, jpeg or pdf")
	cmd.Flags().IntVarP(&flags.quality, "quality", "q", 80, "quality 1-100")
	cmd.Flags().IntVarP(&flags.preset, "preset", "p", 1, "effort preset: 0 fast, 1 balanced, 2 max")
	cmd.Flags().IntVar(&flags.maxSide, "max-side", 0, "downscale so the longest side is at most this many pixels (0 keeps size)")
	cmd.Flags().IntVar(&flags.targetKB, "target-kb", 0, "search for the quality that fits this output size in KB (0 disables)")
	cmd.Flags().StringVar(&flags.pngMode, "png-mode", "auto", "PNG encoding: auto, lossless or palette")
	cmd.Flags().IntVar(&flags.colors, "colors", 256, "palette size for png-mode=palette")
	cmd.Flags().BoolVar(&flags.dither, "dither", false, "dither when quantizing (png-mode=palette)")
	cmd.Flags().BoolVar(&flags.forceColors, "force-palette", false, "always quantize, even when lossless is smaller")
	cmd.Flags().BoolVar(&flags.transparent, "transparent", false, "keep transparency instead of flattening")
	cmd.Flags().StringVar(&flags.background, "background", "#ffffff", "flatten background as #rrggbb")
	cmd.Flags().StringVarP(&flags.outPath, "out", "o", "", "output path (default: derived next to the input)")

	return cmd
}

func runCompress(ctx context.Context, path string, flags *compressFlags) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	name := filepath.Base(path)
	meta := models.FileMeta{
		Name:      name,
		MediaType: mime.TypeByExtension(filepath.Ext(name)),
		Size:      int64(len(data)),
	}

	bg, err := parseBackground(flags.background)
	if err != nil {
		return err
	}

	opts := models.RawOptions{
		OutputMode:            models.OutputMode(strings.ToLower(flags.output)),
		Quality:               flags.quality,
		Preset:                flags.preset,
		MaxSide:               flags.maxSide,
		TargetKB:              flags.targetKB,
		Background:            bg,
		PNGMode:               models.PNGMode(strings.ToLower(flags.pngMode)),
		PaletteColors:         flags.colors,
		Dithering:             flags.dither,
		ForceQuantization:     flags.forceColors,
		TransparentBackground: flags.transparent,
	}

	log := logger.FromEnv()
	req := request.Build(data, meta, opts)
	gw := gateway.New(engine.New(log), log)

	result, err := gw.Invoke(ctx, req, meta)
	if err != nil {
		return fmt.Errorf("compress %s: %w", name, err)
	}

	outPath := flags.outPath
	if outPath == "" {
		outPath = filepath.Join(filepath.Dir(path), result.SuggestedName)
	}

	if err := os.WriteFile(outPath, result.Bytes, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	fmt.Println(renderSummary(name, outPath, result))
	return nil
}

func parseBackground(s string) (models.RGB, error) {
	var r, g, b int
	if _, err := fmt.Sscanf(strings.ToLower(s), "#%02x%02x%02x", &r, &g, &b); err != nil {
		return models.RGB{}, fmt.Errorf("invalid background %q, want #rrggbb", s)
	}
	return models.RGB{R: r, G: g, B: b}, nil
}

var (
	summaryTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	summaryKeyStyle   = lipgloss.NewStyle().Faint(true).Width(10)
	summarySavedStyle = lipgloss.NewStyle().Bold(true)
	summaryBoxStyle   = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("8")).
				Padding(0, 1)
)

func renderSummary(inputName, outPath string, result models.CompressionResult) string {
	rows := []string{
		summaryTitleStyle.Render("Compressed " + inputName),
		summaryKeyStyle.Render("output") + outPath,
		summaryKeyStyle.Render("type") + result.MediaType,
		summaryKeyStyle.Render("size") + fmt.Sprintf("%s -> %s",
			formatBytes(result.OriginalSize), formatBytes(result.OutputSize)),
		summaryKeyStyle.Render("saved") + summarySavedStyle.Render(fmt.Sprintf("%.1f%%", result.SavedPercent())),
	}

	return summaryBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
