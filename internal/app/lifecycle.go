package app

import (
	"github.com/christiandoxa/kompresin/internal/gui"
	"github.com/christiandoxa/kompresin/internal/logger"
	"github.com/christiandoxa/kompresin/internal/preview"
)

type Lifecycle struct {
	controller *gui.Controller
	previews   *preview.Manager
	log        logger.Logger
	isShutdown bool
}

func NewLifecycle(controller *gui.Controller, previews *preview.Manager, log logger.Logger) *Lifecycle {
	return &Lifecycle{
		controller: controller,
		previews:   previews,
		log:        log,
	}
}

func (l *Lifecycle) Shutdown() {
	if l.isShutdown {
		return
	}

	l.isShutdown = true
	l.log.Info("Lifecycle", "shutdown sequence initiated", nil)

	// Teardown in reverse dependency order: the controller first so no
	// run can touch previews after they are revoked.
	if l.controller != nil {
		l.controller.Shutdown()
		l.log.Debug("Lifecycle", "controller shutdown completed", nil)
	}

	if l.previews != nil {
		l.previews.Reset()
		l.log.Debug("Lifecycle", "preview handles revoked", nil)
	}

	l.log.Info("Lifecycle", "shutdown sequence completed", nil)
}
