package commands

import (
	"bytes"
	"context"
	"math"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

const IncrementCounter = "increment_counter"

// IncrementArgs is the named-argument object of increment_counter.
type IncrementArgs struct {
	Counter uint64 `json:"counter"`
}

// incrementRequest keeps counter undecoded so out-of-range literals are
// rejected instead of wrapping.
type incrementRequest struct {
	Counter json.RawMessage `json:"counter"`
}

func (r incrementRequest) counter() (uint64, error) {
	raw := bytes.TrimSpace(r.Counter)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, errors.Wrap(ErrInvalidArgs, "missing argument \"counter\"")
	}
	value, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidArgs, "counter %s is not an integer in [0, %d]", raw, uint64(math.MaxUint64))
	}
	return value, nil
}

// Policy derives the next counter value from the current one.
type Policy func(counter uint64) (uint64, error)

// Double returns counter*2.
func Double() Policy {
	return func(counter uint64) (uint64, error) {
		if counter > math.MaxUint64/2 {
			return 0, errors.Wrapf(ErrOverflow, "%d * 2", counter)
		}
		return counter * 2, nil
	}
}

// Step returns counter+step.
func Step(step uint64) Policy {
	return func(counter uint64) (uint64, error) {
		if counter > math.MaxUint64-step {
			return 0, errors.Wrapf(ErrOverflow, "%d + %d", counter, step)
		}
		return counter + step, nil
	}
}

// NewIncrementCounter builds the increment_counter handler for a policy.
func NewIncrementCounter(policy Policy) Handler {
	return Typed(func(ctx context.Context, args incrementRequest) (uint64, error) {
		counter, err := args.counter()
		if err != nil {
			return 0, err
		}
		return policy(counter)
	})
}

// PolicyByName resolves a configured policy name.
func PolicyByName(name string, step uint64) (Policy, error) {
	switch name {
	case "double":
		return Double(), nil
	case "step":
		if step == 0 {
			return nil, errors.New("step policy needs a positive step")
		}
		return Step(step), nil
	default:
		return nil, errors.Errorf("unknown increment policy %q", name)
	}
}
