package services

import (
	"context"

	"clickcount/internal/bridge"
	"clickcount/internal/commands"
	"clickcount/internal/models"
)

// CounterService issues increment_counter calls through the bridge.
type CounterService struct {
	invoker bridge.Invoker
}

func NewCounterService(invoker bridge.Invoker) *CounterService {
	return &CounterService{invoker: invoker}
}

// Increment sends current to the native command and returns the new value.
func (s *CounterService) Increment(ctx context.Context, current uint64) (uint64, error) {
	var next uint64
	err := s.invoker.Invoke(ctx, commands.IncrementCounter, commands.IncrementArgs{Counter: current}, &next)
	if err != nil {
		return 0, err
	}
	return next, nil
}

// IncrementAsync runs Increment on its own goroutine and hands the outcome to
// done. done runs on that goroutine, not on the UI thread.
func (s *CounterService) IncrementAsync(ctx context.Context, current uint64, done func(models.IncrementResult)) {
	go func() {
		next, err := s.Increment(ctx, current)
		done(models.IncrementResult{
			RequestedWith: current,
			Value:         next,
			Err:           err,
		})
	}()
}
