package widgets

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/christiandoxa/kompresin/internal/models"
	"github.com/christiandoxa/kompresin/internal/request"
)

// OptionsPanel collects every compression parameter. It never
// validates: Snapshot hands the raw values to the request builder,
// which clamps everything at the boundary.
type OptionsPanel struct {
	container *fyne.Container

	mu   sync.Mutex
	opts models.RawOptions

	outputSelect  *widget.Select
	qualityLabel  *widget.Label
	qualitySlider *widget.Slider
	presetSelect  *widget.Select
	maxSideEntry  *widget.Entry
	targetEntry   *widget.Entry

	pngGroup      *fyne.Container
	pngModeSelect *widget.Select
	paletteLabel  *widget.Label
	paletteSlider *widget.Slider
	ditherCheck   *widget.Check
	forceCheck    *widget.Check
	transparent   *widget.Check

	jpegGroup *fyne.Container
	bgEntry   *widget.Entry
}

var (
	outputModeNames = []string{"Auto", "PNG", "JPEG"}
	presetNames     = []string{"Fast", "Balanced", "Max"}
	pngModeNames    = []string{"Auto", "Lossless", "Palette"}
)

func NewOptionsPanel() *OptionsPanel {
	p := &OptionsPanel{
		opts: models.RawOptions{
			OutputMode:    models.OutputAuto,
			Quality:       80,
			Preset:        1,
			Background:    models.White,
			PNGMode:       models.PNGAuto,
			PaletteColors: request.DerivedPaletteColors(80),
		},
	}
	p.setupWidgets()
	p.setupLayout()
	return p
}

func (p *OptionsPanel) setupWidgets() {
	p.outputSelect = widget.NewSelect(outputModeNames, func(value string) {
		p.mu.Lock()
		p.opts.OutputMode = outputModeFromName(value)
		p.mu.Unlock()
	})
	p.outputSelect.SetSelected("Auto")

	p.qualityLabel = widget.NewLabel("Quality: 80")
	p.qualitySlider = widget.NewSlider(1, 100)
	p.qualitySlider.SetValue(80)
	p.qualitySlider.OnChanged = func(value float64) {
		q := int(value)
		p.qualityLabel.SetText("Quality: " + strconv.Itoa(q))

		p.mu.Lock()
		p.opts.Quality = q
		auto := p.opts.PNGMode == models.PNGAuto
		if auto {
			p.opts.PaletteColors = request.DerivedPaletteColors(q)
		}
		colors := p.opts.PaletteColors
		p.mu.Unlock()

		if auto {
			p.reflectPaletteColors(colors)
		}
	}

	p.presetSelect = widget.NewSelect(presetNames, func(value string) {
		p.mu.Lock()
		p.opts.Preset = presetFromName(value)
		p.mu.Unlock()
	})
	p.presetSelect.SetSelected("Balanced")

	p.maxSideEntry = widget.NewEntry()
	p.maxSideEntry.SetPlaceHolder("0 = keep size")
	p.maxSideEntry.OnChanged = func(value string) {
		p.mu.Lock()
		p.opts.MaxSide = parseIntField(value)
		p.mu.Unlock()
	}

	p.targetEntry = widget.NewEntry()
	p.targetEntry.SetPlaceHolder("0 = no target")
	p.targetEntry.OnChanged = func(value string) {
		p.mu.Lock()
		p.opts.TargetKB = parseIntField(value)
		p.mu.Unlock()
	}

	p.pngModeSelect = widget.NewSelect(pngModeNames, func(value string) {
		mode := pngModeFromName(value)

		p.mu.Lock()
		p.opts.PNGMode = mode
		if mode == models.PNGAuto {
			p.opts.PaletteColors = request.DerivedPaletteColors(p.opts.Quality)
		}
		colors := p.opts.PaletteColors
		p.mu.Unlock()

		p.reflectPaletteColors(colors)
		if mode == models.PNGPalette {
			p.paletteSlider.Enable()
		} else {
			p.paletteSlider.Disable()
		}
	})
	p.pngModeSelect.SetSelected("Auto")

	p.paletteLabel = widget.NewLabel("Colors: " + strconv.Itoa(p.opts.PaletteColors))
	p.paletteSlider = widget.NewSlider(1, 256)
	p.paletteSlider.SetValue(float64(p.opts.PaletteColors))
	p.paletteSlider.Disable()
	p.paletteSlider.OnChanged = func(value float64) {
		colors := int(value)
		p.paletteLabel.SetText("Colors: " + strconv.Itoa(colors))

		p.mu.Lock()
		if p.opts.PNGMode != models.PNGAuto {
			p.opts.PaletteColors = colors
		}
		p.mu.Unlock()
	}

	p.ditherCheck = widget.NewCheck("Dithering", func(checked bool) {
		p.mu.Lock()
		p.opts.Dithering = checked
		p.mu.Unlock()
	})

	p.forceCheck = widget.NewCheck("Force Quantization", func(checked bool) {
		p.mu.Lock()
		p.opts.ForceQuantization = checked
		p.mu.Unlock()
	})

	p.transparent = widget.NewCheck("Keep Transparency", func(checked bool) {
		p.mu.Lock()
		p.opts.TransparentBackground = checked
		p.mu.Unlock()
	})

	p.bgEntry = widget.NewEntry()
	p.bgEntry.SetText("#ffffff")
	p.bgEntry.OnChanged = func(value string) {
		if rgb, ok := parseHexColor(value); ok {
			p.mu.Lock()
			p.opts.Background = rgb
			p.mu.Unlock()
		}
	}
}

func (p *OptionsPanel) setupLayout() {
	p.pngGroup = container.NewVBox(
		widget.NewLabel("PNG"),
		container.NewHBox(
			container.NewVBox(widget.NewLabel("Mode"), p.pngModeSelect),
			container.NewVBox(p.paletteLabel, p.paletteSlider),
		),
		container.NewHBox(p.ditherCheck, p.forceCheck, p.transparent),
	)

	p.jpegGroup = container.NewVBox(
		widget.NewLabel("JPEG"),
		container.NewVBox(widget.NewLabel("Background"), p.bgEntry),
	)

	p.container = container.NewVBox(
		container.NewHBox(
			container.NewVBox(widget.NewLabel("Output"), p.outputSelect),
			container.NewVBox(p.qualityLabel, p.qualitySlider),
			container.NewVBox(widget.NewLabel("Preset"), p.presetSelect),
		),
		container.NewHBox(
			container.NewVBox(widget.NewLabel("Max Side (px)"), p.maxSideEntry),
			container.NewVBox(widget.NewLabel("Target Size (KB)"), p.targetEntry),
		),
		p.pngGroup,
		p.jpegGroup,
	)
}

func (p *OptionsPanel) GetContainer() *fyne.Container {
	return p.container
}

// Snapshot returns a copy of the current raw option values.
func (p *OptionsPanel) Snapshot() models.RawOptions {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opts
}

// SetKind enables the option groups matching the selected file's kind.
// Unknown input disables both kind-specific groups.
func (p *OptionsPanel) SetKind(kind models.FileKind) {
	switch kind {
	case models.KindPNG:
		showGroup(p.pngGroup, true)
		showGroup(p.jpegGroup, true)
	case models.KindJPEG:
		showGroup(p.pngGroup, false)
		showGroup(p.jpegGroup, true)
	case models.KindPDF:
		showGroup(p.pngGroup, false)
		showGroup(p.jpegGroup, false)
	default:
		showGroup(p.pngGroup, false)
		showGroup(p.jpegGroup, false)
	}
}

func (p *OptionsPanel) reflectPaletteColors(colors int) {
	p.paletteLabel.SetText("Colors: " + strconv.Itoa(colors))
	p.paletteSlider.SetValue(float64(colors))
}

func showGroup(group *fyne.Container, visible bool) {
	if visible {
		group.Show()
	} else {
		group.Hide()
	}
}

func outputModeFromName(name string) models.OutputMode {
	switch name {
	case "PNG":
		return models.OutputPNG
	case "JPEG":
		return models.OutputJPEG
	default:
		return models.OutputAuto
	}
}

func presetFromName(name string) int {
	for i, candidate := range presetNames {
		if candidate == name {
			return i
		}
	}
	return 1
}

func pngModeFromName(name string) models.PNGMode {
	switch name {
	case "Lossless":
		return models.PNGLossless
	case "Palette":
		return models.PNGPalette
	default:
		return models.PNGAuto
	}
}

func parseIntField(value string) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

func parseHexColor(value string) (models.RGB, bool) {
	value = strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(value) != 6 {
		return models.RGB{}, false
	}

	var r, g, b int
	if _, err := fmt.Sscanf(value, "%02x%02x%02x", &r, &g, &b); err != nil {
		return models.RGB{}, false
	}
	return models.RGB{R: r, G: g, B: b}, true
}
