package widgets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"

	"github.com/christiandoxa/kompresin/internal/logger"
	"github.com/christiandoxa/kompresin/internal/preview"
)

func imageHandle(t *testing.T, m *preview.Manager, role preview.Role, w, h int) *preview.Handle {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}

	if role == preview.RoleBefore {
		return m.SetBefore(buf.Bytes(), "image/png")
	}
	return m.SetAfter(buf.Bytes(), "image/png")
}

func TestSetImagesShowsComparison(t *testing.T) {
	test.NewApp()
	m := preview.NewManager(logger.Nop{})
	v := NewCompareView()

	before := imageHandle(t, m, preview.RoleBefore, 8, 4)
	after := imageHandle(t, m, preview.RoleAfter, 8, 4)

	if !v.SetImages(before, after) {
		t.Fatal("SetImages returned false for two image handles")
	}
	if !v.Visible() {
		t.Error("view must be visible after SetImages")
	}
	if v.SplitPercent() != 50 {
		t.Errorf("SplitPercent = %v, want 50", v.SplitPercent())
	}
	if v.AspectRatio() != 2.0 {
		t.Errorf("AspectRatio = %v, want 2.0", v.AspectRatio())
	}
}

func TestSetImagesRejectsNonImageContent(t *testing.T) {
	test.NewApp()
	m := preview.NewManager(logger.Nop{})
	v := NewCompareView()

	before := imageHandle(t, m, preview.RoleBefore, 8, 4)
	pdf := m.SetAfter([]byte("%PDF-1.4"), "application/pdf")

	if v.SetImages(before, pdf) {
		t.Fatal("SetImages must fail for non-image content")
	}
	if v.Visible() {
		t.Error("view must stay hidden")
	}

	if v.SetImages(nil, nil) {
		t.Fatal("SetImages must fail for nil handles")
	}
}

func TestAspectRatioLocksToFirstImage(t *testing.T) {
	test.NewApp()
	m := preview.NewManager(logger.Nop{})
	v := NewCompareView()

	// wide before, square after; the before ratio wins
	before := imageHandle(t, m, preview.RoleBefore, 8, 4)
	after := imageHandle(t, m, preview.RoleAfter, 4, 4)

	v.SetImages(before, after)
	if v.AspectRatio() != 2.0 {
		t.Errorf("AspectRatio = %v, want 2.0 from the first image", v.AspectRatio())
	}

	// reloading re-locks from the new first image
	square := imageHandle(t, m, preview.RoleBefore, 4, 4)
	wide := imageHandle(t, m, preview.RoleAfter, 8, 4)
	v.SetImages(square, wide)
	if v.AspectRatio() != 1.0 {
		t.Errorf("AspectRatio = %v, want re-locked 1.0", v.AspectRatio())
	}
}

func TestDragUpdatesSplit(t *testing.T) {
	test.NewApp()
	m := preview.NewManager(logger.Nop{})
	v := NewCompareView()
	v.SetImages(
		imageHandle(t, m, preview.RoleBefore, 8, 4),
		imageHandle(t, m, preview.RoleAfter, 8, 4),
	)

	// pretend layout placed the stage at x=10, 200 wide
	v.mu.Lock()
	v.stagePos = fyne.NewPos(10, 0)
	v.stageSize = fyne.NewSize(200, 100)
	v.mu.Unlock()

	drag := func(x float32) {
		v.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, 50)}})
	}

	drag(110)
	if got := v.SplitPercent(); got != 50 {
		t.Errorf("SplitPercent = %v, want 50", got)
	}
	if !v.Dragging() {
		t.Error("Dragging must be true mid-drag")
	}

	drag(10)
	if got := v.SplitPercent(); got != 0 {
		t.Errorf("SplitPercent = %v, want 0", got)
	}

	// positions outside the stage clamp to the edges
	drag(-50)
	if got := v.SplitPercent(); got != 0 {
		t.Errorf("SplitPercent = %v, want clamped 0", got)
	}
	drag(500)
	if got := v.SplitPercent(); got != 100 {
		t.Errorf("SplitPercent = %v, want clamped 100", got)
	}

	v.DragEnd()
	if v.Dragging() {
		t.Error("Dragging must be false after DragEnd")
	}
	if got := v.SplitPercent(); got != 100 {
		t.Errorf("SplitPercent = %v, divider must stay put after release", got)
	}
}

func TestMouseDownRepositionsDivider(t *testing.T) {
	test.NewApp()
	m := preview.NewManager(logger.Nop{})
	v := NewCompareView()
	v.SetImages(
		imageHandle(t, m, preview.RoleBefore, 8, 4),
		imageHandle(t, m, preview.RoleAfter, 8, 4),
	)

	v.mu.Lock()
	v.stagePos = fyne.NewPos(0, 0)
	v.stageSize = fyne.NewSize(100, 100)
	v.mu.Unlock()

	ev := &desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(25, 10)}}
	v.MouseDown(ev)
	if got := v.SplitPercent(); got != 25 {
		t.Errorf("SplitPercent = %v, want 25", got)
	}
	if !v.Dragging() {
		t.Error("MouseDown must start a drag")
	}

	v.MouseUp(nil)
	if v.Dragging() {
		t.Error("MouseUp must end the drag")
	}
}

func TestDragIgnoredBeforeLayout(t *testing.T) {
	test.NewApp()
	m := preview.NewManager(logger.Nop{})
	v := NewCompareView()
	v.SetImages(
		imageHandle(t, m, preview.RoleBefore, 8, 4),
		imageHandle(t, m, preview.RoleAfter, 8, 4),
	)

	// no layout pass yet, stage size is zero
	v.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(75, 10)}})
	if got := v.SplitPercent(); got != 50 {
		t.Errorf("SplitPercent = %v, must stay at default before layout", got)
	}
}

func TestClearResetsState(t *testing.T) {
	test.NewApp()
	m := preview.NewManager(logger.Nop{})
	v := NewCompareView()
	v.SetImages(
		imageHandle(t, m, preview.RoleBefore, 8, 4),
		imageHandle(t, m, preview.RoleAfter, 8, 4),
	)

	v.mu.Lock()
	v.stageSize = fyne.NewSize(100, 100)
	v.mu.Unlock()
	v.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(80, 10)}})

	v.Clear()

	if v.Visible() {
		t.Error("view must hide on Clear")
	}
	if v.SplitPercent() != 50 {
		t.Errorf("SplitPercent = %v, want reset to 50", v.SplitPercent())
	}
	if v.AspectRatio() != 0 {
		t.Errorf("AspectRatio = %v, want unlocked", v.AspectRatio())
	}
}

func TestStageRect(t *testing.T) {
	tests := []struct {
		name     string
		size     fyne.Size
		ratio    float64
		wantPos  fyne.Position
		wantSize fyne.Size
	}{
		{
			name: "unlocked fills the area",
			size: fyne.NewSize(400, 300), ratio: 0,
			wantPos: fyne.NewPos(0, 0), wantSize: fyne.NewSize(400, 300),
		},
		{
			name: "wide image letterboxes vertically",
			size: fyne.NewSize(400, 400), ratio: 2,
			wantPos: fyne.NewPos(0, 100), wantSize: fyne.NewSize(400, 200),
		},
		{
			name: "tall image pillarboxes horizontally",
			size: fyne.NewSize(400, 100), ratio: 0.5,
			wantPos: fyne.NewPos(175, 0), wantSize: fyne.NewSize(50, 100),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stageRect(tt.size, tt.ratio)
			if got.pos != tt.wantPos || got.size != tt.wantSize {
				t.Errorf("stageRect = %+v/%+v, want %+v/%+v",
					got.pos, got.size, tt.wantPos, tt.wantSize)
			}
		})
	}
}

func TestCropSplitsSourcePixels(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 4))
	for x := 0; x < 10; x++ {
		img.SetNRGBA(x, 0, color.NRGBA{R: uint8(x), A: 255})
	}

	left := cropLeft(img, 50)
	if b := left.Bounds(); b.Min.X != 0 || b.Max.X != 5 {
		t.Errorf("left bounds = %v, want 0..5", b)
	}

	right := cropRight(img, 50)
	if b := right.Bounds(); b.Min.X != 5 || b.Max.X != 10 {
		t.Errorf("right bounds = %v, want 5..10", b)
	}

	if b := cropLeft(img, 0).Bounds(); b.Dx() != 0 {
		t.Errorf("left at 0%% should be empty, got %v", b)
	}
	if b := cropRight(img, 100).Bounds(); b.Dx() != 0 {
		t.Errorf("right at 100%% should be empty, got %v", b)
	}

	if cropLeft(nil, 50) != nil || cropRight(nil, 50) != nil {
		t.Error("nil input must pass through")
	}
}
