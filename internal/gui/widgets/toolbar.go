package widgets

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Toolbar holds the run controls: open, compress, save and the theme
// toggle, plus the selected-file label.
type Toolbar struct {
	container *fyne.Container

	openButton     *widget.Button
	compressButton *widget.Button
	saveButton     *widget.Button
	themeButton    *widget.Button
	fileLabel      *widget.Label

	openHandler     func()
	compressHandler func()
	saveHandler     func()
	themeHandler    func()
}

func NewToolbar() *Toolbar {
	toolbar := &Toolbar{}
	toolbar.createComponents()
	toolbar.buildLayout()
	return toolbar
}

func (t *Toolbar) createComponents() {
	t.openButton = widget.NewButton("Open File", t.onOpenClicked)
	t.openButton.Importance = widget.HighImportance

	t.compressButton = widget.NewButton("Compress", t.onCompressClicked)
	t.compressButton.Importance = widget.HighImportance
	t.compressButton.Disable() // Disabled until a file is selected

	t.saveButton = widget.NewButton("Save Result", t.onSaveClicked)
	t.saveButton.Disable() // Disabled until a run succeeds

	t.themeButton = widget.NewButton("Dark / Light", t.onThemeClicked)

	t.fileLabel = widget.NewLabel("No file selected")
}

func (t *Toolbar) buildLayout() {
	actionSection := container.NewHBox(
		t.openButton,
		t.compressButton,
		widget.NewSeparator(),
		t.saveButton,
	)

	t.container = container.NewPadded(container.NewHBox(
		actionSection,
		widget.NewSeparator(),
		t.fileLabel,
		widget.NewSeparator(),
		t.themeButton,
	))
}

func (t *Toolbar) onOpenClicked() {
	if t.openHandler != nil {
		t.openHandler()
	}
}

func (t *Toolbar) onCompressClicked() {
	if t.compressHandler != nil {
		t.compressHandler()
	}
}

func (t *Toolbar) onSaveClicked() {
	if t.saveHandler != nil {
		t.saveHandler()
	}
}

func (t *Toolbar) onThemeClicked() {
	if t.themeHandler != nil {
		t.themeHandler()
	}
}

func (t *Toolbar) GetContainer() *fyne.Container {
	return t.container
}

// Event handler setters
func (t *Toolbar) SetOpenHandler(handler func())     { t.openHandler = handler }
func (t *Toolbar) SetCompressHandler(handler func()) { t.compressHandler = handler }
func (t *Toolbar) SetSaveHandler(handler func())     { t.saveHandler = handler }
func (t *Toolbar) SetThemeHandler(handler func())    { t.themeHandler = handler }

// SetFileName reflects the currently selected file in the toolbar.
func (t *Toolbar) SetFileName(name string) {
	if name == "" {
		name = "No file selected"
	}
	t.fileLabel.SetText(name)
}

// SetCompressEnabled gates the run trigger. It stays disabled while a
// run is in flight so a second trigger cannot start an overlapping run.
func (t *Toolbar) SetCompressEnabled(enabled bool) {
	if enabled {
		t.compressButton.Enable()
	} else {
		t.compressButton.Disable()
	}
}

func (t *Toolbar) SetSaveEnabled(enabled bool) {
	if enabled {
		t.saveButton.Enable()
	} else {
		t.saveButton.Disable()
	}
}

// CompressEnabled reports whether the run trigger currently accepts
// clicks.
func (t *Toolbar) CompressEnabled() bool {
	return !t.compressButton.Disabled()
}

func (t *Toolbar) SaveEnabled() bool {
	return !t.saveButton.Disabled()
}
