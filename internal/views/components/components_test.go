package components

import (
	"math"
	"strconv"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
)

func TestCounterDisplay_InitialText(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	display := NewCounterDisplay(1)

	assert.Equal(t, "1", display.Text())
	assert.EqualValues(t, 1, display.Value())
}

func TestCounterDisplay_TextIsExactDecimal(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	display := NewCounterDisplay(1)
	for _, v := range []uint64{0, 2, 10, 1000000, 1 << 53, math.MaxUint64} {
		display.SetValue(v)
		assert.Equal(t, strconv.FormatUint(v, 10), display.Text())
		assert.Equal(t, v, display.Value())
	}
}

func TestIncrementButton_Tap(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	button := NewIncrementButton()
	taps := 0

	test.Tap(button.Button())
	assert.Zero(t, taps)

	button.SetTapHandler(func() { taps++ })
	test.Tap(button.Button())
	test.Tap(button.Button())

	assert.Equal(t, 2, taps)
	assert.Equal(t, "Increment", button.Button().Text)
}
