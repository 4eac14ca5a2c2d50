package controllers

import (
	"context"

	"clickcount/internal/eventbus"
	"clickcount/internal/logger"
	"clickcount/internal/models"

	"fyne.io/fyne/v2"
)

const component = "CounterController"

// CounterView is the part of the screen the controller drives.
type CounterView interface {
	SetValue(value uint64)
	SetIncrementHandler(handler func())
}

// Incrementer issues increment calls asynchronously.
type Incrementer interface {
	IncrementAsync(ctx context.Context, current uint64, done func(models.IncrementResult))
}

// Publisher receives controller events.
type Publisher interface {
	Publish(event eventbus.Event)
}

// Dispatcher runs fn on the UI goroutine.
type Dispatcher func(fn func())

// CounterController owns the counter state of one screen and wires the
// increment button to the native command.
type CounterController struct {
	counter  *models.Counter
	service  Incrementer
	bus      Publisher
	logger   logger.Logger
	view     CounterView
	dispatch Dispatcher

	guardInFlight bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewCounterController creates a controller for counter. With guardInFlight
// set, a tap while a call is outstanding is rejected instead of sending a
// second call with the same value.
func NewCounterController(
	counter *models.Counter,
	service Incrementer,
	bus Publisher,
	log logger.Logger,
	guardInFlight bool,
) *CounterController {
	ctx, cancel := context.WithCancel(context.Background())

	return &CounterController{
		counter:       counter,
		service:       service,
		bus:           bus,
		logger:        log,
		dispatch:      fyne.Do,
		guardInFlight: guardInFlight,
		ctx:           ctx,
		cancel:        cancel,
	}
}

// SetDispatcher replaces fyne.Do as the way back onto the UI goroutine
func (cc *CounterController) SetDispatcher(dispatch Dispatcher) {
	cc.dispatch = dispatch
}

// SetView binds the view, renders the current value and connects the button
func (cc *CounterController) SetView(view CounterView) {
	cc.view = view
	view.SetIncrementHandler(cc.Increment)
	view.SetValue(cc.counter.Value())
}

// Value returns the counter state
func (cc *CounterController) Value() uint64 {
	return cc.counter.Value()
}

// Status reports whether a call is outstanding
func (cc *CounterController) Status() models.CallStatus {
	return cc.counter.Status()
}

// Increment handles a button activation. It runs on the UI goroutine and
// returns without waiting for the native command.
func (cc *CounterController) Increment() {
	if cc.ctx.Err() != nil {
		return
	}

	if cc.guardInFlight && cc.counter.Status() == models.Pending {
		cc.logger.Debug(component, "increment ignored, call in flight", map[string]interface{}{
			"value": cc.counter.Value(),
		})
		cc.publish(eventbus.IncrementDenied, map[string]interface{}{
			"value": cc.counter.Value(),
		})
		return
	}

	current := cc.counter.Begin()
	cc.logger.Debug(component, "increment requested", map[string]interface{}{
		"counter":   current,
		"in_flight": cc.counter.InFlight(),
	})

	cc.service.IncrementAsync(cc.ctx, current, func(result models.IncrementResult) {
		if cc.ctx.Err() != nil {
			return
		}
		cc.dispatch(func() {
			cc.applyResult(result)
		})
	})
}

// applyResult runs on the UI goroutine. A failed call leaves the value and
// the display untouched.
func (cc *CounterController) applyResult(result models.IncrementResult) {
	cc.counter.Settle()

	if !result.OK() {
		cc.logger.Warning(component, "increment call failed, keeping value", map[string]interface{}{
			"counter": result.RequestedWith,
			"value":   cc.counter.Value(),
			"error":   result.Err.Error(),
		})
		cc.publish(eventbus.IncrementFailed, map[string]interface{}{
			"counter": result.RequestedWith,
			"value":   cc.counter.Value(),
			"error":   result.Err,
		})
		return
	}

	cc.counter.Replace(result.Value)
	if cc.view != nil {
		cc.view.SetValue(result.Value)
	}

	cc.publish(eventbus.CounterChanged, map[string]interface{}{
		"counter": result.RequestedWith,
		"value":   result.Value,
	})
}

func (cc *CounterController) publish(eventType string, data map[string]interface{}) {
	if cc.bus == nil {
		return
	}
	cc.bus.Publish(eventbus.Event{Type: eventType, Data: data})
}

// Shutdown cancels outstanding calls; their results are discarded.
func (cc *CounterController) Shutdown() {
	cc.cancel()
	cc.logger.Info(component, "controller shut down", map[string]interface{}{
		"value":     cc.counter.Value(),
		"in_flight": cc.counter.InFlight(),
	})
}
