package widgets

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/christiandoxa/kompresin/internal/preview"
)

const (
	defaultSplitPercent = 50.0
	dividerThickness    = 2.0
	compareMinWidth     = 320
	compareMinHeight    = 240
)

// CompareView is the before/after comparison stage. A draggable divider
// reveals the original on the left and the compressed output on the
// right; both images are stretched onto a stage locked to the first
// loaded image's aspect ratio so the overlay stays pixel-aligned.
type CompareView struct {
	widget.BaseWidget

	mu           sync.Mutex
	before       *preview.Handle
	after        *preview.Handle
	splitPercent float64
	dragging     bool
	aspectRatio  float64 // width:height, 0 while unlocked

	// stage rect from the last layout pass, used for drag math
	stagePos  fyne.Position
	stageSize fyne.Size
}

func NewCompareView() *CompareView {
	c := &CompareView{splitPercent: defaultSplitPercent}
	c.ExtendBaseWidget(c)
	c.Hide()
	return c
}

// SetImages enters the visible state when both handles carry image
// content: the split returns to center and the aspect ratio re-locks
// from the first loaded image. Otherwise the view hides itself.
// Reports whether the comparison is shown.
func (c *CompareView) SetImages(before, after *preview.Handle) bool {
	if before == nil || after == nil || !before.IsImage() || !after.IsImage() {
		c.Clear()
		return false
	}

	c.mu.Lock()
	c.before = before
	c.after = after
	c.splitPercent = defaultSplitPercent
	c.dragging = false
	c.aspectRatio = 0
	c.lockAspectFromLocked(before)
	c.lockAspectFromLocked(after)
	c.mu.Unlock()

	c.Show()
	c.Refresh()
	return true
}

// Clear enters the hidden state and resets the comparison to defaults.
func (c *CompareView) Clear() {
	c.mu.Lock()
	c.before = nil
	c.after = nil
	c.splitPercent = defaultSplitPercent
	c.dragging = false
	c.aspectRatio = 0
	c.mu.Unlock()

	c.Hide()
}

// lockAspectFromLocked fixes the stage ratio from a handle's natural
// dimensions. Only the first image with real dimensions wins; later
// loads never move a locked ratio.
func (c *CompareView) lockAspectFromLocked(h *preview.Handle) {
	if c.aspectRatio != 0 {
		return
	}
	w, hpx := h.Size()
	if w > 0 && hpx > 0 {
		c.aspectRatio = float64(w) / float64(hpx)
	}
}

func (c *CompareView) SplitPercent() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.splitPercent
}

func (c *CompareView) Dragging() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dragging
}

func (c *CompareView) AspectRatio() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspectRatio
}

// MouseDown begins a drag and repositions the divider immediately.
func (c *CompareView) MouseDown(ev *desktop.MouseEvent) {
	c.mu.Lock()
	c.dragging = true
	c.updateSplitLocked(ev.Position.X)
	c.mu.Unlock()
	c.Refresh()
}

// MouseUp ends the drag, keeping the divider where it is.
func (c *CompareView) MouseUp(*desktop.MouseEvent) {
	c.mu.Lock()
	c.dragging = false
	c.mu.Unlock()
}

// Dragged recomputes the split from the pointer's horizontal offset
// within the stage.
func (c *CompareView) Dragged(ev *fyne.DragEvent) {
	c.mu.Lock()
	c.dragging = true
	c.updateSplitLocked(ev.Position.X)
	c.mu.Unlock()
	c.Refresh()
}

// DragEnd releases the pointer capture without resetting the split.
func (c *CompareView) DragEnd() {
	c.mu.Lock()
	c.dragging = false
	c.mu.Unlock()
}

func (c *CompareView) updateSplitLocked(x float32) {
	if c.stageSize.Width <= 0 {
		return
	}
	percent := float64(x-c.stagePos.X) / float64(c.stageSize.Width) * 100
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	c.splitPercent = percent
}

func (c *CompareView) CreateRenderer() fyne.WidgetRenderer {
	beforeImg := canvas.NewImageFromImage(nil)
	beforeImg.FillMode = canvas.ImageFillStretch
	beforeImg.ScaleMode = canvas.ImageScaleFastest

	afterImg := canvas.NewImageFromImage(nil)
	afterImg.FillMode = canvas.ImageFillStretch
	afterImg.ScaleMode = canvas.ImageScaleFastest

	divider := canvas.NewRectangle(theme.Color(theme.ColorNameForeground))

	return &compareViewRenderer{
		view:      c,
		beforeImg: beforeImg,
		afterImg:  afterImg,
		divider:   divider,
		objects:   []fyne.CanvasObject{beforeImg, afterImg, divider},
	}
}

type compareViewRenderer struct {
	view      *CompareView
	beforeImg *canvas.Image
	afterImg  *canvas.Image
	divider   *canvas.Rectangle
	objects   []fyne.CanvasObject
}

func (r *compareViewRenderer) Layout(size fyne.Size) {
	v := r.view
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.before == nil || v.after == nil {
		r.beforeImg.Hide()
		r.afterImg.Hide()
		r.divider.Hide()
		return
	}
	r.beforeImg.Show()
	r.afterImg.Show()
	r.divider.Show()

	stage := stageRect(size, v.aspectRatio)
	v.stagePos = stage.pos
	v.stageSize = stage.size

	splitX := stage.size.Width * float32(v.splitPercent/100)

	r.beforeImg.Image = cropLeft(v.before.Image(), v.splitPercent)
	r.beforeImg.Move(stage.pos)
	r.beforeImg.Resize(fyne.NewSize(splitX, stage.size.Height))

	r.afterImg.Image = cropRight(v.after.Image(), v.splitPercent)
	r.afterImg.Move(fyne.NewPos(stage.pos.X+splitX, stage.pos.Y))
	r.afterImg.Resize(fyne.NewSize(stage.size.Width-splitX, stage.size.Height))

	r.divider.Move(fyne.NewPos(stage.pos.X+splitX-dividerThickness/2, stage.pos.Y))
	r.divider.Resize(fyne.NewSize(dividerThickness, stage.size.Height))

	r.beforeImg.Refresh()
	r.afterImg.Refresh()
}

func (r *compareViewRenderer) MinSize() fyne.Size {
	return fyne.NewSize(compareMinWidth, compareMinHeight)
}

func (r *compareViewRenderer) Refresh() {
	r.Layout(r.view.Size())
	r.divider.Refresh()
}

func (r *compareViewRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *compareViewRenderer) Destroy() {}

type stage struct {
	pos  fyne.Position
	size fyne.Size
}

// stageRect fits the stage into the widget area while preserving the
// locked aspect ratio, centered on both axes.
func stageRect(size fyne.Size, ratio float64) stage {
	if ratio <= 0 {
		return stage{size: size}
	}

	w := size.Width
	h := w / float32(ratio)
	if h > size.Height {
		h = size.Height
		w = h * float32(ratio)
	}

	return stage{
		pos:  fyne.NewPos((size.Width-w)/2, (size.Height-h)/2),
		size: fyne.NewSize(w, h),
	}
}

type subImager interface {
	SubImage(image.Rectangle) image.Image
}

// cropLeft returns the left portion of the source up to the split, in
// the source's own pixel space.
func cropLeft(img image.Image, splitPercent float64) image.Image {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	cut := b.Min.X + int(float64(b.Dx())*splitPercent/100+0.5)
	sub, ok := img.(subImager)
	if !ok {
		return img
	}
	return sub.SubImage(image.Rect(b.Min.X, b.Min.Y, cut, b.Max.Y))
}

// cropRight returns the remainder of the source after the split.
func cropRight(img image.Image, splitPercent float64) image.Image {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	cut := b.Min.X + int(float64(b.Dx())*splitPercent/100+0.5)
	sub, ok := img.(subImager)
	if !ok {
		return img
	}
	return sub.SubImage(image.Rect(cut, b.Min.Y, b.Max.X, b.Max.Y))
}
