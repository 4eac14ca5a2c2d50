package app

import (
	"math"
	"strconv"
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clickcount/internal/config"
	"clickcount/internal/eventbus"
	"clickcount/internal/logger"
)

func newTestApplication(t *testing.T, cfg config.Config) *Application {
	t.Helper()
	fyneApp := test.NewApp()
	t.Cleanup(fyneApp.Quit)

	application, err := New(fyneApp, cfg, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(application.Shutdown)

	var ui sync.Mutex
	application.Controller().SetDispatcher(func(fn func()) {
		ui.Lock()
		defer ui.Unlock()
		fn()
	})
	return application
}

func watch(application *Application, eventType string) <-chan eventbus.Event {
	ch := make(chan eventbus.Event, 8)
	application.Bus().Subscribe(eventType, eventbus.HandlerFunc("test", func(e eventbus.Event) { ch <- e }))
	return ch
}

func await(t *testing.T, ch <-chan eventbus.Event) eventbus.Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return eventbus.Event{}
	}
}

func TestApplication_StartsAtOne(t *testing.T) {
	application := newTestApplication(t, config.Default())

	assert.Equal(t, "1", application.View().DisplayedText())
}

func TestApplication_ClickDoublesThroughNativeCommand(t *testing.T) {
	application := newTestApplication(t, config.Default())
	changed := watch(application, eventbus.CounterChanged)

	for _, want := range []uint64{2, 4} {
		test.Tap(application.View().IncrementButton())
		await(t, changed)
		assert.Equal(t, strconv.FormatUint(want, 10), application.View().DisplayedText())
	}

	assert.Equal(t, 2, application.Calls().Stats("increment_counter").Calls)
}

func TestApplication_StepPolicy(t *testing.T) {
	cfg := config.Default()
	cfg.Increment.Policy = config.PolicyStep
	cfg.Increment.Step = 1
	application := newTestApplication(t, cfg)
	changed := watch(application, eventbus.CounterChanged)

	test.Tap(application.View().IncrementButton())
	await(t, changed)
	test.Tap(application.View().IncrementButton())
	await(t, changed)

	assert.Equal(t, "3", application.View().DisplayedText())
}

func TestApplication_FailedCallKeepsDisplay(t *testing.T) {
	cfg := config.Default()
	cfg.InitialValue = math.MaxUint64
	application := newTestApplication(t, cfg)
	failed := watch(application, eventbus.IncrementFailed)

	test.Tap(application.View().IncrementButton())
	e := await(t, failed)

	assert.Error(t, e.Data["error"].(error))
	assert.Equal(t, strconv.FormatUint(math.MaxUint64, 10), application.View().DisplayedText())
}

func assertShutDown(t *testing.T, application *Application) {
	t.Helper()
	select {
	case <-application.shutdown.Done():
	default:
		t.Fatal("application was not shut down")
	}

	late := watch(application, eventbus.CounterChanged)
	application.Bus().Publish(eventbus.Event{Type: eventbus.CounterChanged})
	select {
	case <-late:
		t.Fatal("event delivered after shutdown")
	case <-time.After(50 * time.Millisecond):
	}

	assert.NotPanics(t, application.Shutdown)
}

func TestApplication_WindowCloseShutsDown(t *testing.T) {
	application := newTestApplication(t, config.Default())

	application.window.Close()

	assertShutDown(t, application)
}

func TestApplication_QuitAsksFirst(t *testing.T) {
	application := newTestApplication(t, config.Default())

	application.confirmQuit()
	assert.NotNil(t, application.window.Canvas().Overlays().Top())

	application.onQuitConfirmed(false)
	select {
	case <-application.shutdown.Done():
		t.Fatal("declined quit shut the application down")
	default:
	}

	application.onQuitConfirmed(true)
	assertShutDown(t, application)
}

func TestApplication_ShutdownIgnoresLateClicks(t *testing.T) {
	application := newTestApplication(t, config.Default())

	application.Shutdown()
	test.Tap(application.View().IncrementButton())

	assert.Equal(t, "1", application.View().DisplayedText())
	assert.Zero(t, application.Calls().Stats("increment_counter").Calls)
}

func TestNew_RejectsUnknownPolicy(t *testing.T) {
	fyneApp := test.NewApp()
	defer fyneApp.Quit()

	cfg := config.Default()
	cfg.Increment.Policy = "triple"

	_, err := New(fyneApp, cfg, logger.NewNop())
	assert.Error(t, err)
}
