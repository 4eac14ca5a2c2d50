package views

import (
	"fmt"

	"clickcount/internal/metrics"
	"clickcount/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// MainView is the counter screen: the value centred, the button bottom right.
// Its methods run on the UI goroutine.
type MainView struct {
	window          fyne.Window
	mainContainer   *fyne.Container
	display         *components.CounterDisplay
	incrementButton *components.IncrementButton

	incrementHandler func()
}

// NewMainView creates the counter screen in window showing initial.
func NewMainView(window fyne.Window, initial uint64) *MainView {
	view := &MainView{
		window: window,
	}

	view.initializeComponents(initial)
	view.buildLayout()
	view.setupEventHandlers()

	return view
}

func (mv *MainView) initializeComponents(initial uint64) {
	mv.display = components.NewCounterDisplay(initial)
	mv.incrementButton = components.NewIncrementButton()
}

func (mv *MainView) buildLayout() {
	mv.mainContainer = container.NewBorder(
		nil,
		mv.incrementButton.GetContainer(),
		nil,
		nil,
		mv.display.GetContainer(),
	)

	mv.window.SetContent(mv.mainContainer)
}

func (mv *MainView) setupEventHandlers() {
	mv.incrementButton.SetTapHandler(func() {
		if mv.incrementHandler != nil {
			mv.incrementHandler()
		}
	})
}

// SetIncrementHandler sets the handler for increment requests
func (mv *MainView) SetIncrementHandler(handler func()) {
	mv.incrementHandler = handler
}

// SetValue updates the counter display
func (mv *MainView) SetValue(value uint64) {
	mv.display.SetValue(value)
}

// DisplayedText returns what the counter display currently shows
func (mv *MainView) DisplayedText() string {
	return mv.display.Text()
}

// IncrementButton exposes the button widget
func (mv *MainView) IncrementButton() *widget.Button {
	return mv.incrementButton.Button()
}

// SetMainMenu installs the File and Help menus
func (mv *MainView) SetMainMenu(onAbout func(), onQuit func()) {
	mv.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu("File",
			fyne.NewMenuItem("Quit", onQuit),
		),
		fyne.NewMenu("Help",
			fyne.NewMenuItem("About", onAbout),
		),
	))
}

// ShowConfirm displays a confirmation dialog
func (mv *MainView) ShowConfirm(title, message string, callback func(bool)) {
	dialog.ShowConfirm(title, message, callback, mv.window)
}

// ShowAboutDialog displays application information and native call statistics
func (mv *MainView) ShowAboutDialog(appName, version string, stats []metrics.CallStats) {
	content := container.NewVBox(
		widget.NewLabel(appName),
		widget.NewLabel(fmt.Sprintf("Version: %s", version)),
		widget.NewSeparator(),
	)
	if len(stats) == 0 {
		content.Add(widget.NewLabel("No native calls yet"))
	}
	for _, s := range stats {
		content.Add(widget.NewLabel(fmt.Sprintf("%s: %d calls, %d failed, avg %s",
			s.Command, s.Calls, s.Failures, s.Average())))
	}

	dialog.ShowCustom("About", "Close", content, mv.window)
}

func (mv *MainView) GetWindow() fyne.Window {
	return mv.window
}

// Show shows the main window
func (mv *MainView) Show() {
	mv.window.Show()
}
