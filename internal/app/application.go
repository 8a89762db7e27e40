package app

import (
	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"github.com/christiandoxa/kompresin/internal/engine"
	"github.com/christiandoxa/kompresin/internal/gateway"
	"github.com/christiandoxa/kompresin/internal/gui"
	"github.com/christiandoxa/kompresin/internal/logger"
	"github.com/christiandoxa/kompresin/internal/preview"
	"github.com/christiandoxa/kompresin/internal/theme"
)

const (
	AppName    = "Kompresin"
	AppID      = "com.christiandoxa.kompresin"
	AppVersion = "1.0.0"

	MinWindowWidth  = 760
	MinWindowHeight = 560
)

type Application struct {
	fyneApp    fyne.App
	window     fyne.Window
	view       *gui.View
	controller *gui.Controller
	previews   *preview.Manager
	themes     *theme.Manager
	log        logger.Logger
	lifecycle  *Lifecycle
}

func NewApplication() (*Application, error) {
	fyneApp := fyneapp.NewWithID(AppID)
	window := fyneApp.NewWindow(AppName)

	window.Resize(fyne.NewSize(MinWindowWidth, MinWindowHeight))
	window.SetFixedSize(false)
	window.CenterOnScreen()
	window.SetMaster()

	log := logger.FromEnv()

	log.Info("Application", "starting application", map[string]interface{}{
		"version": AppVersion,
	})

	themes := theme.NewManager(fyneApp, log)
	themes.Apply()

	previews := preview.NewManager(log)
	eng := engine.New(log)
	gw := gateway.New(eng, log)

	view := gui.NewView(window, themes)
	controller := gui.NewController(gw, previews, log)
	controller.SetView(view)
	view.SetController(controller)

	lifecycle := NewLifecycle(controller, previews, log)

	application := &Application{
		fyneApp:    fyneApp,
		window:     window,
		view:       view,
		controller: controller,
		previews:   previews,
		themes:     themes,
		log:        log,
		lifecycle:  lifecycle,
	}

	log.Info("Application", "initialization complete", nil)
	return application, nil
}

func (a *Application) Run() error {
	a.window.SetCloseIntercept(func() {
		a.log.Info("Application", "shutdown requested", nil)
		a.lifecycle.Shutdown()
		a.window.Close()
	})

	a.view.Show()

	a.log.Info("Application", "GUI displayed", nil)
	a.fyneApp.Run()

	return nil
}
