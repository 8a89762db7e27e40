// Package theme persists the dark/light preference across sessions and
// applies it to the running Fyne app.
package theme

import (
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	fynetheme "fyne.io/fyne/v2/theme"

	"github.com/christiandoxa/kompresin/internal/logger"
)

const preferenceKey = "theme"

const (
	VariantDark  = "dark"
	VariantLight = "light"
)

// Manager owns the theme preference. At startup the stored value wins;
// without one the system's ambient variant decides, defaulting to
// light.
type Manager struct {
	app fyne.App
	log logger.Logger

	mu      sync.Mutex
	current string
}

func NewManager(app fyne.App, log logger.Logger) *Manager {
	return &Manager{app: app, log: log}
}

// Apply resolves the startup variant and sets it on the app.
func (m *Manager) Apply() {
	stored := m.app.Preferences().String(preferenceKey)

	variant := stored
	if variant != VariantDark && variant != VariantLight {
		variant = VariantLight
		if m.app.Settings().ThemeVariant() == fynetheme.VariantDark {
			variant = VariantDark
		}
	}

	m.set(variant, stored == "")
}

// Toggle flips between dark and light and persists the choice.
func (m *Manager) Toggle() {
	m.mu.Lock()
	next := VariantDark
	if m.current == VariantDark {
		next = VariantLight
	}
	m.mu.Unlock()

	m.set(next, false)
	m.app.Preferences().SetString(preferenceKey, next)
}

// Current returns the active variant name.
func (m *Manager) Current() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

func (m *Manager) set(variant string, fromAmbient bool) {
	fyneVariant := fynetheme.VariantLight
	if variant == VariantDark {
		fyneVariant = fynetheme.VariantDark
	}

	m.app.Settings().SetTheme(&forcedVariant{
		base:    fynetheme.DefaultTheme(),
		variant: fyneVariant,
	})

	m.mu.Lock()
	m.current = variant
	m.mu.Unlock()

	m.log.Debug("Theme", "theme applied", map[string]interface{}{
		"variant":      variant,
		"from_ambient": fromAmbient,
	})
}

// forcedVariant pins the default theme to one variant regardless of
// the OS setting.
type forcedVariant struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
}

func (f *forcedVariant) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return f.base.Color(name, f.variant)
}

func (f *forcedVariant) Font(style fyne.TextStyle) fyne.Resource {
	return f.base.Font(style)
}

func (f *forcedVariant) Icon(name fyne.ThemeIconName) fyne.Resource {
	return f.base.Icon(name)
}

func (f *forcedVariant) Size(name fyne.ThemeSizeName) float32 {
	return f.base.Size(name)
}
