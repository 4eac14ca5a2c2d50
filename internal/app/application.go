package app

import (
	"runtime"
	"time"

	"clickcount/internal/bridge"
	"clickcount/internal/commands"
	"clickcount/internal/config"
	"clickcount/internal/controllers"
	"clickcount/internal/eventbus"
	"clickcount/internal/logger"
	"clickcount/internal/metrics"
	"clickcount/internal/models"
	"clickcount/internal/services"
	"clickcount/internal/shutdown"
	"clickcount/internal/views"

	"fyne.io/fyne/v2"
	"github.com/pkg/errors"
)

const (
	AppName    = "Click Count"
	AppID      = "io.clickcount.desktop"
	AppVersion = "1.0.0"

	eventBufferSize = 64
	statsInterval   = 30 * time.Second
)

// Application wires the counter screen to the native command layer.
type Application struct {
	fyneApp fyne.App
	window  fyne.Window
	logger  logger.Logger
	config  config.Config

	controller *controllers.CounterController
	view       *views.MainView

	bus      *eventbus.Bus
	activity *ActivityLog
	calls    *metrics.CallTracker

	shutdown *shutdown.Manager
}

// New builds the application on an existing fyne.App.
func New(fyneApp fyne.App, cfg config.Config, log logger.Logger) (*Application, error) {
	timeout, err := cfg.Timeout()
	if err != nil {
		return nil, err
	}

	registry, err := newRegistry(cfg)
	if err != nil {
		return nil, err
	}

	window := fyneApp.NewWindow(AppName)
	window.Resize(fyne.NewSize(cfg.Window.Width, cfg.Window.Height))
	window.CenterOnScreen()
	window.SetMaster()

	bus := eventbus.NewBus(eventBufferSize, log)
	activity := NewActivityLog(log)
	activity.Attach(bus)

	calls := metrics.NewCallTracker()
	invoker := bridge.New(registry, log, timeout)
	invoker.SetRecorder(calls)
	service := services.NewCounterService(invoker)
	counter := models.NewCounter(cfg.InitialValue)

	controller := controllers.NewCounterController(counter, service, bus, log, cfg.GuardInFlight)
	view := views.NewMainView(window, counter.Value())
	controller.SetView(view)

	shutdownManager := shutdown.NewManager(log)
	shutdownManager.Register("event bus", bus)
	shutdownManager.Register("controller", controller)

	application := &Application{
		fyneApp:    fyneApp,
		window:     window,
		logger:     log,
		config:     cfg,
		controller: controller,
		view:       view,
		bus:        bus,
		activity:   activity,
		calls:      calls,
		shutdown:   shutdownManager,
	}

	application.setupMenus()
	application.setupWindowEvents()

	log.Info("Application", "application initialized", map[string]interface{}{
		"version":         AppVersion,
		"initial_value":   cfg.InitialValue,
		"policy":          cfg.Increment.Policy,
		"guard_in_flight": cfg.GuardInFlight,
		"invoke_timeout":  timeout.String(),
		"commands":        registry.Names(),
		"go_version":      runtime.Version(),
	})

	return application, nil
}

func newRegistry(cfg config.Config) (*commands.Registry, error) {
	policy, err := commands.PolicyByName(cfg.Increment.Policy, cfg.Increment.Step)
	if err != nil {
		return nil, errors.Wrap(err, "increment policy")
	}

	registry := commands.NewRegistry()
	if err := registry.Register(commands.IncrementCounter, commands.NewIncrementCounter(policy)); err != nil {
		return nil, err
	}
	return registry, nil
}

// Run shows the window and blocks in the fyne event loop.
func (a *Application) Run() {
	a.logger.Info("Application", "starting application UI", nil)

	a.view.Show()
	a.shutdown.Listen(func() {
		fyne.Do(a.fyneApp.Quit)
	})
	go a.monitorCalls()
	a.fyneApp.Run()

	a.Shutdown()
	a.logCallStats()
}

// monitorCalls logs call statistics until shutdown.
func (a *Application) monitorCalls() {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.logCallStats()
		case <-a.shutdown.Done():
			return
		}
	}
}

func (a *Application) logCallStats() {
	for _, s := range a.calls.Snapshot() {
		a.logger.Debug("Application", "command statistics", map[string]interface{}{
			"command":         s.Command,
			"calls":           s.Calls,
			"failures":        s.Failures,
			"avg_duration_ms": s.Average().Milliseconds(),
			"max_duration_ms": s.Max.Milliseconds(),
			"goroutine_count": runtime.NumGoroutine(),
		})
	}
}

// Shutdown stops the controller and event bus. It is safe to call twice.
func (a *Application) Shutdown() {
	a.shutdown.Shutdown()
}

// Quit shuts down and leaves the event loop
func (a *Application) Quit() {
	a.Shutdown()
	a.fyneApp.Quit()
}

func (a *Application) setupMenus() {
	a.view.SetMainMenu(
		func() {
			a.view.ShowAboutDialog(AppName, AppVersion, a.calls.Snapshot())
		},
		a.confirmQuit,
	)
}

// confirmQuit asks before leaving; outstanding calls are cancelled on quit.
func (a *Application) confirmQuit() {
	a.view.ShowConfirm("Quit", "Quit "+AppName+"?", a.onQuitConfirmed)
}

func (a *Application) onQuitConfirmed(confirmed bool) {
	if !confirmed {
		a.logger.Debug("Application", "quit cancelled", nil)
		return
	}
	a.Quit()
}

func (a *Application) setupWindowEvents() {
	a.window.SetOnClosed(func() {
		started := time.Now()
		a.Shutdown()
		a.logger.Info("Application", "window closed", map[string]interface{}{
			"final_value": a.controller.Value(),
			"cleanup_ms":  time.Since(started).Milliseconds(),
		})
	})
}

func (a *Application) Controller() *controllers.CounterController {
	return a.controller
}

func (a *Application) View() *views.MainView {
	return a.view
}

func (a *Application) Bus() *eventbus.Bus {
	return a.bus
}

func (a *Application) Calls() *metrics.CallTracker {
	return a.calls
}
