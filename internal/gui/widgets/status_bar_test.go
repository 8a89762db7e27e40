package widgets

import (
	"testing"

	"fyne.io/fyne/v2/test"

	"github.com/christiandoxa/kompresin/internal/models"
)

func TestStatusBarProgressRendering(t *testing.T) {
	test.NewApp()
	s := NewStatusBar()

	if s.Status() != "Ready" {
		t.Errorf("initial status = %q, want Ready", s.Status())
	}
	if s.progressBar.Visible() {
		t.Error("progress bar must start hidden")
	}

	s.SetProgress(models.ProgressRunning(42))
	if s.Status() != "Compressing… 42%" {
		t.Errorf("running status = %q", s.Status())
	}
	if !s.progressBar.Visible() {
		t.Error("progress bar must show while running")
	}
	if s.progressBar.Value != 0.42 {
		t.Errorf("progress value = %v, want 0.42", s.progressBar.Value)
	}

	s.SetProgress(models.ProgressDone())
	if s.Status() != "Done" {
		t.Errorf("done status = %q", s.Status())
	}
	if s.progressBar.Value != 1 {
		t.Errorf("progress value = %v, want 1", s.progressBar.Value)
	}

	s.SetProgress(models.ProgressFailed("engine exploded"))
	if s.Status() != "Failed: engine exploded" {
		t.Errorf("failed status = %q", s.Status())
	}
	if s.progressBar.Visible() {
		t.Error("progress bar must hide on failure")
	}

	s.SetProgress(models.ProgressIdle())
	if s.Status() != "Ready" {
		t.Errorf("idle status = %q, want Ready", s.Status())
	}
	if s.progressBar.Visible() {
		t.Error("progress bar must hide when idle")
	}
}

func TestStatusBarResultSummary(t *testing.T) {
	test.NewApp()
	s := NewStatusBar()

	s.SetResult(models.CompressionResult{
		SuggestedName: "photo.jpg",
		OriginalSize:  2048,
		OutputSize:    1024,
	})

	want := "photo.jpg — 2.0 KB → 1.0 KB (saved 50.0%)"
	if s.Status() != want {
		t.Errorf("status = %q, want %q", s.Status(), want)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{500, "500 B"},
		{1536, "1.5 KB"},
		{3 << 20, "3.0 MB"},
		{5 << 30, "5.0 GB"},
	}

	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
