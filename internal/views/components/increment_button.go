package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// IncrementButton is the button that requests a counter increment.
type IncrementButton struct {
	container *fyne.Container
	button    *widget.Button
	handler   func()
}

func NewIncrementButton() *IncrementButton {
	ib := &IncrementButton{}
	ib.button = widget.NewButton("Increment", ib.onTapped)
	ib.button.Importance = widget.DangerImportance
	ib.container = container.NewHBox(layout.NewSpacer(), ib.button)
	return ib
}

func (ib *IncrementButton) onTapped() {
	if ib.handler != nil {
		ib.handler()
	}
}

// SetTapHandler sets the handler run on each tap
func (ib *IncrementButton) SetTapHandler(handler func()) {
	ib.handler = handler
}

// Button exposes the underlying widget
func (ib *IncrementButton) Button() *widget.Button {
	return ib.button
}

// GetContainer returns the right-aligned button row
func (ib *IncrementButton) GetContainer() *fyne.Container {
	return ib.container
}
