package gui

import (
	"context"
	"sync"
	"time"

	"fyne.io/fyne/v2"

	"github.com/christiandoxa/kompresin/internal/gateway"
	"github.com/christiandoxa/kompresin/internal/logger"
	"github.com/christiandoxa/kompresin/internal/models"
	"github.com/christiandoxa/kompresin/internal/preview"
	"github.com/christiandoxa/kompresin/internal/request"
)

// idleDelay is how long Done/Failed stays visible before the progress
// indicator returns to Idle.
const idleDelay = 600 * time.Millisecond

// Controller is the session controller: it owns the selected file, the
// preview handles and the progress state machine, and drives one
// compression run at a time through the gateway.
type Controller struct {
	view     *View
	gateway  *gateway.Gateway
	previews *preview.Manager
	log      logger.Logger

	mu         sync.Mutex
	fileMeta   models.FileMeta
	fileBytes  []byte
	result     *models.CompressionResult
	running    bool
	resetTimer *time.Timer

	// dispatch marshals UI mutations onto the main thread; tests
	// substitute a direct call.
	dispatch func(func())
}

func NewController(gw *gateway.Gateway, previews *preview.Manager, log logger.Logger) *Controller {
	return &Controller{
		gateway:  gw,
		previews: previews,
		log:      log,
		dispatch: func(f func()) { fyne.Do(f) },
	}
}

func (c *Controller) SetView(view *View) {
	c.view = view
}

// SelectFile replaces the session's input file. The previous run's
// output handle is revoked and the comparison hides until the next
// successful run.
func (c *Controller) SelectFile(meta models.FileMeta, data []byte) {
	c.mu.Lock()
	c.fileMeta = meta
	c.fileBytes = data
	c.result = nil
	c.mu.Unlock()

	c.previews.Revoke(preview.RoleAfter)
	c.previews.SetBefore(data, meta.MediaType)

	kind := request.Classify(meta.MediaType, request.Extension(meta.Name))

	c.dispatch(func() {
		c.view.SetFileName(meta.Name)
		c.view.SetKind(kind)
		c.view.HideComparison()
		c.view.SetCompressEnabled(true)
		c.view.SetSaveEnabled(false)
		c.view.SetProgress(models.ProgressIdle())
	})

	c.log.Info("Controller", "file selected", map[string]interface{}{
		"name":       meta.Name,
		"media_type": meta.MediaType,
		"size":       meta.Size,
		"kind":       kind.String(),
	})
}

// Compress starts a run. Triggering while a run is in flight is a
// no-op: the run is neither queued nor restarted.
func (c *Controller) Compress() {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		c.log.Debug("Controller", "run already in flight", nil)
		return
	}
	if len(c.fileBytes) == 0 {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.stopResetTimerLocked()
	meta := c.fileMeta
	data := c.fileBytes
	opts := c.view.OptionsSnapshot()
	c.mu.Unlock()

	c.dispatch(func() {
		c.view.SetCompressEnabled(false)
		c.view.SetProgress(models.ProgressRunning(5))
	})

	go c.run(meta, data, opts)
}

func (c *Controller) run(meta models.FileMeta, data []byte, opts models.RawOptions) {
	req := request.Build(data, meta, opts)

	c.dispatch(func() {
		c.view.SetProgress(models.ProgressRunning(15))
	})

	result, err := c.gateway.Invoke(context.Background(), req, meta)
	if err != nil {
		c.finishFailed(err)
		return
	}

	c.dispatch(func() {
		c.view.SetProgress(models.ProgressRunning(85))
	})

	c.finishDone(result)
}

func (c *Controller) finishDone(result models.CompressionResult) {
	after := c.previews.SetAfter(result.Bytes, result.MediaType)
	before := c.previews.Before()

	c.mu.Lock()
	c.result = &result
	c.mu.Unlock()

	c.dispatch(func() {
		shown := c.view.ShowComparison(before, after)
		if !shown {
			// Mismatched media types cannot be overlaid; drop the
			// stale before preview as well.
			c.previews.Revoke(preview.RoleBefore)
		}

		c.view.SetResult(result)
		c.view.SetProgress(models.ProgressDone())
		c.view.SetSaveEnabled(true)
		c.view.SetCompressEnabled(true)
	})

	c.endRun(models.ProgressDone())
}

func (c *Controller) finishFailed(err error) {
	c.dispatch(func() {
		c.view.SetProgress(models.ProgressFailed(err.Error()))
		c.view.SetCompressEnabled(true)
	})

	c.endRun(models.ProgressFailed(err.Error()))
}

// endRun clears the in-flight flag and schedules the return to Idle.
func (c *Controller) endRun(final models.ProgressState) {
	c.mu.Lock()
	c.running = false
	c.stopResetTimerLocked()
	c.resetTimer = time.AfterFunc(idleDelay, func() {
		c.dispatch(func() {
			c.view.SetProgress(models.ProgressIdle())

			c.mu.Lock()
			result := c.result
			c.mu.Unlock()
			if final.Phase == models.PhaseDone && result != nil {
				c.view.SetResult(*result)
			}
		})
	})
	c.mu.Unlock()
}

func (c *Controller) stopResetTimerLocked() {
	if c.resetTimer != nil {
		c.resetTimer.Stop()
		c.resetTimer = nil
	}
}

// Running reports whether a run is in flight.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Result returns the last successful run's artifact, or nil.
func (c *Controller) Result() *models.CompressionResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Reset tears the session back to its initial state, revoking both
// preview handles. Safe to call repeatedly.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.fileMeta = models.FileMeta{}
	c.fileBytes = nil
	c.result = nil
	c.stopResetTimerLocked()
	c.mu.Unlock()

	c.previews.Reset()

	c.dispatch(func() {
		c.view.SetFileName("")
		c.view.HideComparison()
		c.view.SetCompressEnabled(false)
		c.view.SetSaveEnabled(false)
		c.view.SetProgress(models.ProgressIdle())
	})
}

// Shutdown stops timers; in-flight engine calls cannot be aborted and
// simply run to completion.
func (c *Controller) Shutdown() {
	c.mu.Lock()
	c.stopResetTimerLocked()
	c.mu.Unlock()

	c.previews.Reset()
	c.log.Info("Controller", "shutdown completed", nil)
}
