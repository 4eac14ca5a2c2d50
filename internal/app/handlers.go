package app

import (
	"clickcount/internal/eventbus"
	"clickcount/internal/logger"
)

// ActivityLog records controller events in the application log.
type ActivityLog struct {
	logger logger.Logger
}

func NewActivityLog(log logger.Logger) *ActivityLog {
	return &ActivityLog{logger: log}
}

// Attach subscribes to every controller event type.
func (al *ActivityLog) Attach(bus *eventbus.Bus) {
	bus.Subscribe(eventbus.CounterChanged, eventbus.HandlerFunc("activity.changed", al.onCounterChanged))
	bus.Subscribe(eventbus.IncrementFailed, eventbus.HandlerFunc("activity.failed", al.onIncrementFailed))
	bus.Subscribe(eventbus.IncrementDenied, eventbus.HandlerFunc("activity.denied", al.onIncrementDenied))
}

func (al *ActivityLog) onCounterChanged(event eventbus.Event) {
	al.logger.Info("Activity", "counter changed", withTime(event))
}

func (al *ActivityLog) onIncrementFailed(event eventbus.Event) {
	err, _ := event.Data["error"].(error)
	fields := withTime(event)
	delete(fields, "error")
	al.logger.Error("Activity", err, fields)
}

func (al *ActivityLog) onIncrementDenied(event eventbus.Event) {
	al.logger.Debug("Activity", "increment denied while pending", withTime(event))
}

func withTime(event eventbus.Event) map[string]interface{} {
	fields := make(map[string]interface{}, len(event.Data)+1)
	for k, v := range event.Data {
		fields[k] = v
	}
	fields["at"] = event.Timestamp
	return fields
}
