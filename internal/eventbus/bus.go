package eventbus

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"clickcount/internal/logger"
)

const (
	CounterChanged  = "counter_changed"
	IncrementFailed = "increment_failed"
	IncrementDenied = "increment_denied"
)

type Event struct {
	Type      string
	Timestamp time.Time
	Data      map[string]interface{}
}

type EventHandler interface {
	Handle(event Event)
	ID() string
}

type handlerFunc struct {
	id string
	fn func(Event)
}

func (h handlerFunc) Handle(event Event) { h.fn(event) }
func (h handlerFunc) ID() string         { return h.id }

// HandlerFunc wraps fn as an EventHandler identified by id.
func HandlerFunc(id string, fn func(Event)) EventHandler {
	return handlerFunc{id: id, fn: fn}
}

type Bus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
	buffer      chan Event
	logger      logger.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	closeOnce   sync.Once
}

func NewBus(bufferSize int, log logger.Logger) *Bus {
	ctx, cancel := context.WithCancel(context.Background())

	bus := &Bus{
		subscribers: make(map[string][]EventHandler),
		buffer:      make(chan Event, bufferSize),
		logger:      log,
		ctx:         ctx,
		cancel:      cancel,
	}

	bus.startWorker()
	return bus
}

// Publish queues an event. It never blocks: if the buffer is full or the bus
// is shut down the event is dropped.
func (b *Bus) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	select {
	case <-b.ctx.Done():
		return
	default:
	}

	select {
	case b.buffer <- event:
	default:
		b.logger.Warning("EventBus", "event dropped, buffer full", map[string]interface{}{
			"type": event.Type,
		})
	}
}

func (b *Bus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

func (b *Bus) Unsubscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	handlers := b.subscribers[eventType]
	for i, h := range handlers {
		if h.ID() == handler.ID() {
			b.subscribers[eventType] = append(handlers[:i:i], handlers[i+1:]...)
			break
		}
	}
}

// Shutdown stops the worker after the queued events are delivered.
func (b *Bus) Shutdown() {
	b.closeOnce.Do(func() {
		b.mu.Lock()
		b.cancel()
		close(b.buffer)
		b.mu.Unlock()
	})
	b.wg.Wait()
}

func (b *Bus) startWorker() {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		for event := range b.buffer {
			b.dispatchEvent(event)
		}
	}()
}

// dispatchEvent delivers to subscribers in subscription order on the worker
// goroutine, so a subscriber sees events in publish order.
func (b *Bus) dispatchEvent(event Event) {
	b.mu.RLock()
	handlers := make([]EventHandler, len(b.subscribers[event.Type]))
	copy(handlers, b.subscribers[event.Type])
	b.mu.RUnlock()

	for _, handler := range handlers {
		b.deliver(handler, event)
	}
}

func (b *Bus) deliver(h EventHandler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("EventBus", errors.Errorf("handler panic: %v", r), map[string]interface{}{
				"handler": h.ID(),
				"type":    event.Type,
			})
		}
	}()
	h.Handle(event)
}
