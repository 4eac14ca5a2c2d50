package components

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
)

const displayTextSize = 60

// CounterDisplay renders a counter value as large decimal text.
// Methods must be called on the UI goroutine.
type CounterDisplay struct {
	container *fyne.Container
	text      *canvas.Text
	value     uint64
}

// NewCounterDisplay creates a display showing value
func NewCounterDisplay(value uint64) *CounterDisplay {
	cd := &CounterDisplay{value: value}
	cd.createComponents()
	cd.buildLayout()
	return cd
}

func (cd *CounterDisplay) createComponents() {
	cd.text = canvas.NewText(format(cd.value), theme.Color(theme.ColorNameForeground))
	cd.text.TextSize = displayTextSize
	cd.text.Alignment = fyne.TextAlignCenter
	cd.text.TextStyle = fyne.TextStyle{Bold: true}
}

func (cd *CounterDisplay) buildLayout() {
	cd.container = container.NewCenter(cd.text)
}

// SetValue re-renders the text for value
func (cd *CounterDisplay) SetValue(value uint64) {
	cd.value = value
	cd.text.Text = format(value)
	cd.text.Refresh()
}

// Value returns the value last rendered
func (cd *CounterDisplay) Value() uint64 {
	return cd.value
}

// Text returns the rendered text
func (cd *CounterDisplay) Text() string {
	return cd.text.Text
}

// GetContainer returns the display container
func (cd *CounterDisplay) GetContainer() *fyne.Container {
	return cd.container
}

func format(value uint64) string {
	return strconv.FormatUint(value, 10)
}
