package models

import (
	"sync"
)

// CallStatus reports whether an increment call is outstanding.
type CallStatus int

const (
	Idle CallStatus = iota
	Pending
)

func (s CallStatus) String() string {
	if s == Pending {
		return "pending"
	}
	return "idle"
}

// Counter is the view state of one counter screen. Its value is always the
// initial value or the last value returned by a successful increment call.
type Counter struct {
	mu       sync.RWMutex
	value    uint64
	inFlight int
}

// NewCounter creates the state for a new screen.
func NewCounter(initial uint64) *Counter {
	return &Counter{value: initial}
}

// Value returns the current value
func (c *Counter) Value() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Replace overwrites the value wholesale
func (c *Counter) Replace(value uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = value
}

// Begin records a call leaving for the native layer and returns the value it
// carries.
func (c *Counter) Begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight++
	return c.value
}

// Settle records a call completing, successfully or not.
func (c *Counter) Settle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight > 0 {
		c.inFlight--
	}
}

func (c *Counter) InFlight() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inFlight
}

func (c *Counter) Status() CallStatus {
	if c.InFlight() > 0 {
		return Pending
	}
	return Idle
}

// IncrementResult is the outcome of one increment call.
type IncrementResult struct {
	RequestedWith uint64
	Value         uint64
	Err           error
}

func (r IncrementResult) OK() bool {
	return r.Err == nil
}
