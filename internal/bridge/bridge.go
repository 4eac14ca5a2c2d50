// Package bridge carries calls from the UI to the native command layer.
package bridge

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"

	"clickcount/internal/logger"
)

const component = "Bridge"

// Invoker calls a named command with named arguments and decodes the result
// into out.
type Invoker interface {
	Invoke(ctx context.Context, command string, args any, out any) error
}

// Dispatcher is the native side of the boundary.
type Dispatcher interface {
	Dispatch(ctx context.Context, name string, args []byte) ([]byte, error)
}

// Recorder receives the duration and outcome of every call.
type Recorder interface {
	Record(command string, duration time.Duration, err error)
}

// CallError is the single failure class seen by callers. Err keeps the
// underlying cause for errors.Is.
type CallError struct {
	Command   string
	RequestID string
	Err       error
}

func (e *CallError) Error() string {
	return "invoke " + e.Command + " (" + e.RequestID + "): " + e.Err.Error()
}

func (e *CallError) Unwrap() error { return e.Err }

type Bridge struct {
	native   Dispatcher
	logger   logger.Logger
	timeout  time.Duration
	recorder Recorder

	entropyMu sync.Mutex
	entropy   *ulid.MonotonicEntropy
}

// New builds a Bridge. A zero timeout leaves calls unbounded.
func New(native Dispatcher, log logger.Logger, timeout time.Duration) *Bridge {
	return &Bridge{
		native:  native,
		logger:  log,
		timeout: timeout,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// SetRecorder attaches call metrics
func (b *Bridge) SetRecorder(recorder Recorder) {
	b.recorder = recorder
}

func (b *Bridge) Invoke(ctx context.Context, command string, args any, out any) error {
	requestID := b.newRequestID()
	started := time.Now()

	fail := func(err error) error {
		b.record(command, started, err)
		b.logger.Debug(component, "invoke failed", map[string]interface{}{
			"command":    command,
			"request_id": requestID,
			"error":      err.Error(),
		})
		return &CallError{Command: command, RequestID: requestID, Err: err}
	}

	payload, err := json.Marshal(args)
	if err != nil {
		return fail(errors.Wrap(err, "encode arguments"))
	}

	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	b.logger.Debug(component, "invoke", map[string]interface{}{
		"command":    command,
		"request_id": requestID,
		"args":       string(payload),
	})

	result, err := b.call(ctx, command, payload)
	if err != nil {
		return fail(err)
	}

	if out != nil {
		if err := json.Unmarshal(result, out); err != nil {
			return fail(errors.Wrap(err, "decode result"))
		}
	}

	b.record(command, started, nil)
	b.logger.Debug(component, "invoke completed", map[string]interface{}{
		"command":     command,
		"request_id":  requestID,
		"result":      string(result),
		"duration_ms": time.Since(started).Milliseconds(),
	})
	return nil
}

// call runs the dispatch on its own goroutine so a handler that ignores its
// context cannot hold the caller past a timeout.
func (b *Bridge) call(ctx context.Context, command string, payload []byte) ([]byte, error) {
	type reply struct {
		result []byte
		err    error
	}

	done := make(chan reply, 1)
	go func() {
		result, err := b.native.Dispatch(ctx, command, payload)
		done <- reply{result: result, err: err}
	}()

	select {
	case r := <-done:
		return r.result, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (b *Bridge) record(command string, started time.Time, err error) {
	if b.recorder != nil {
		b.recorder.Record(command, time.Since(started), err)
	}
}

func (b *Bridge) newRequestID() string {
	b.entropyMu.Lock()
	defer b.entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), b.entropy).String()
}
