package widgets

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/christiandoxa/kompresin/internal/models"
)

// StatusBar renders the progress state machine: a status line plus a
// progress bar that is only visible while a run is in flight or just
// finished.
type StatusBar struct {
	container   *fyne.Container
	statusLabel *widget.Label
	progressBar *widget.ProgressBar
}

func NewStatusBar() *StatusBar {
	s := &StatusBar{
		statusLabel: widget.NewLabel("Ready"),
		progressBar: widget.NewProgressBar(),
	}
	s.progressBar.Hide()

	s.container = container.NewVBox(s.statusLabel, s.progressBar)
	return s
}

func (s *StatusBar) GetContainer() *fyne.Container {
	return s.container
}

// SetProgress reflects one progress transition. Idle hides the bar and
// restores the ready text; Failed surfaces the run's error verbatim.
func (s *StatusBar) SetProgress(state models.ProgressState) {
	switch state.Phase {
	case models.PhaseRunning:
		s.progressBar.Show()
		s.progressBar.SetValue(float64(state.Percent) / 100)
		s.statusLabel.SetText(fmt.Sprintf("Compressing… %d%%", state.Percent))
	case models.PhaseDone:
		s.progressBar.SetValue(1)
		s.statusLabel.SetText("Done")
	case models.PhaseFailed:
		s.progressBar.Hide()
		s.statusLabel.SetText("Failed: " + state.Message)
	default:
		s.progressBar.Hide()
		s.progressBar.SetValue(0)
		s.statusLabel.SetText("Ready")
	}
}

// Status returns the current status line text.
func (s *StatusBar) Status() string {
	return s.statusLabel.Text
}

// SetResult shows the size accounting for a successful run.
func (s *StatusBar) SetResult(result models.CompressionResult) {
	s.statusLabel.SetText(fmt.Sprintf(
		"%s — %s → %s (saved %.1f%%)",
		result.SuggestedName,
		formatBytes(result.OriginalSize),
		formatBytes(result.OutputSize),
		result.SavedPercent(),
	))
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
