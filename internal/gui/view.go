package gui

import (
	"fmt"
	"io"
	"mime"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"github.com/christiandoxa/kompresin/internal/gui/widgets"
	"github.com/christiandoxa/kompresin/internal/models"
	"github.com/christiandoxa/kompresin/internal/preview"
	"github.com/christiandoxa/kompresin/internal/theme"
)

// View handles all UI components and their layout.
type View struct {
	window     fyne.Window
	controller *Controller
	themes     *theme.Manager

	toolbar       *widgets.Toolbar
	optionsPanel  *widgets.OptionsPanel
	compareView   *widgets.CompareView
	statusBar     *widgets.StatusBar
	mainContainer *fyne.Container
}

func NewView(window fyne.Window, themes *theme.Manager) *View {
	view := &View{
		window: window,
		themes: themes,
	}

	view.setupComponents()
	view.setupLayout()

	return view
}

func (v *View) SetController(controller *Controller) {
	v.controller = controller
	v.setupEventHandlers()
}

func (v *View) setupComponents() {
	v.toolbar = widgets.NewToolbar()
	v.optionsPanel = widgets.NewOptionsPanel()
	v.compareView = widgets.NewCompareView()
	v.statusBar = widgets.NewStatusBar()
}

func (v *View) setupLayout() {
	v.mainContainer = container.NewBorder(
		v.toolbar.GetContainer(),
		v.statusBar.GetContainer(),
		nil,
		container.NewVScroll(v.optionsPanel.GetContainer()),
		v.compareView,
	)
}

func (v *View) setupEventHandlers() {
	if v.controller == nil {
		return
	}

	v.toolbar.SetOpenHandler(v.openFile)
	v.toolbar.SetCompressHandler(v.controller.Compress)
	v.toolbar.SetSaveHandler(v.saveResult)
	v.toolbar.SetThemeHandler(v.themes.Toggle)
}

func (v *View) GetMainContainer() *fyne.Container {
	return v.mainContainer
}

// openFile shows the picker and forwards the selected file's bytes and
// metadata to the controller.
func (v *View) openFile() {
	fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			v.ShowError("File selection error", err)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		data, readErr := io.ReadAll(reader)
		if readErr != nil {
			v.ShowError("File read error", readErr)
			return
		}

		name := reader.URI().Name()
		meta := models.FileMeta{
			Name:      name,
			MediaType: mime.TypeByExtension(filepath.Ext(name)),
			Size:      int64(len(data)),
		}
		v.controller.SelectFile(meta, data)
	}, v.window)

	fileDialog.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".pdf"}))
	fileDialog.Show()
}

// saveResult writes the last successful artifact under its suggested
// name.
func (v *View) saveResult() {
	result := v.controller.Result()
	if result == nil {
		v.ShowError("Save error", fmt.Errorf("no compressed output to save"))
		return
	}

	saveDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			v.ShowError("File save error", err)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()

		if _, writeErr := writer.Write(result.Bytes); writeErr != nil {
			v.ShowError("File save error", writeErr)
		}
	}, v.window)

	saveDialog.SetFileName(result.SuggestedName)
	saveDialog.Show()
}

// Methods below are the controller's UI surface. All of them must run
// on the main thread.

func (v *View) SetFileName(name string) {
	v.toolbar.SetFileName(name)
}

func (v *View) SetKind(kind models.FileKind) {
	v.optionsPanel.SetKind(kind)
}

func (v *View) OptionsSnapshot() models.RawOptions {
	return v.optionsPanel.Snapshot()
}

func (v *View) SetCompressEnabled(enabled bool) {
	v.toolbar.SetCompressEnabled(enabled)
}

func (v *View) SetSaveEnabled(enabled bool) {
	v.toolbar.SetSaveEnabled(enabled)
}

func (v *View) SetProgress(state models.ProgressState) {
	v.statusBar.SetProgress(state)
}

func (v *View) SetResult(result models.CompressionResult) {
	v.statusBar.SetResult(result)
}

// ShowComparison enters the split view when both handles hold image
// content; reports whether the comparison is visible.
func (v *View) ShowComparison(before, after *preview.Handle) bool {
	return v.compareView.SetImages(before, after)
}

func (v *View) HideComparison() {
	v.compareView.Clear()
}

func (v *View) ShowError(title string, err error) {
	dialog.ShowError(fmt.Errorf("%s: %w", title, err), v.window)
}

func (v *View) GetWindow() fyne.Window {
	return v.window
}

func (v *View) Show() {
	v.window.SetContent(v.mainContainer)
	v.window.Show()
}
