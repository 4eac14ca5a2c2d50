package views

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestView(t *testing.T, initial uint64) *MainView {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)
	w := a.NewWindow("clickcount")
	t.Cleanup(w.Close)
	return NewMainView(w, initial)
}

func TestMainView_InitialDisplay(t *testing.T) {
	view := newTestView(t, 1)

	assert.Equal(t, "1", view.DisplayedText())
	require.NotNil(t, view.GetWindow().Content())
}

func TestMainView_TapRunsIncrementHandler(t *testing.T) {
	view := newTestView(t, 1)

	test.Tap(view.IncrementButton())

	calls := 0
	view.SetIncrementHandler(func() { calls++ })
	test.Tap(view.IncrementButton())

	assert.Equal(t, 1, calls)
}

func TestMainView_SetValue(t *testing.T) {
	view := newTestView(t, 1)

	view.SetValue(2)
	assert.Equal(t, "2", view.DisplayedText())

	view.SetValue(1024)
	assert.Equal(t, "1024", view.DisplayedText())
}

func TestMainView_MainMenu(t *testing.T) {
	view := newTestView(t, 1)

	view.SetMainMenu(func() {}, func() {})

	menu := view.GetWindow().MainMenu()
	require.NotNil(t, menu)
	require.Len(t, menu.Items, 2)
	assert.Equal(t, "File", menu.Items[0].Label)
	assert.Equal(t, "Help", menu.Items[1].Label)
}

func TestMainView_ShowConfirm(t *testing.T) {
	view := newTestView(t, 1)
	require.Nil(t, view.GetWindow().Canvas().Overlays().Top())

	view.ShowConfirm("Quit", "Quit Click Count?", func(bool) {})

	assert.NotNil(t, view.GetWindow().Canvas().Overlays().Top())
}
