package commands

import (
	"context"
	"math"
	"strconv"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCounterRegistry(t *testing.T, policy Policy) *Registry {
	t.Helper()
	r := NewRegistry()
	require.NoError(t, r.Register(IncrementCounter, NewIncrementCounter(policy)))
	return r
}

func TestIncrementCounter_DoublesByDefault(t *testing.T) {
	r := newCounterRegistry(t, Double())

	for in, want := range map[uint64]string{0: "0", 1: "2", 2: "4", 21: "42"} {
		out, err := r.Dispatch(context.Background(), IncrementCounter, []byte(`{"counter":`+strconv.FormatUint(in, 10)+`}`))
		require.NoError(t, err)
		assert.Equal(t, want, string(out))
	}
}

func TestIncrementCounter_LargestAcceptedValue(t *testing.T) {
	r := newCounterRegistry(t, Double())

	_, err := r.Dispatch(context.Background(), IncrementCounter, []byte(`{"counter":18446744073709551615}`))
	assert.True(t, errors.Is(err, ErrOverflow), "got %v", err)

	out, err := r.Dispatch(context.Background(), IncrementCounter, []byte(`{"counter":9223372036854775807}`))
	require.NoError(t, err)
	assert.Equal(t, "18446744073709551614", string(out))

	out, err = r.Dispatch(context.Background(), IncrementCounter, []byte(" {\"counter\": 4}\n"))
	require.NoError(t, err)
	assert.Equal(t, "8", string(out))
}

func TestIncrementCounter_Step(t *testing.T) {
	r := newCounterRegistry(t, Step(1))

	out, err := r.Dispatch(context.Background(), IncrementCounter, []byte(`{"counter":1}`))
	require.NoError(t, err)
	assert.Equal(t, "2", string(out))
}

func TestIncrementCounter_InvalidArgs(t *testing.T) {
	r := newCounterRegistry(t, Double())

	cases := map[string]string{
		"missing":       `{}`,
		"empty":         ``,
		"null":          `{"counter":null}`,
		"negative":      `{"counter":-1}`,
		"fraction":      `{"counter":1.5}`,
		"string":        `{"counter":"1"}`,
		"unknown":       `{"counter":1,"value":2}`,
		"too large":     `{"counter":18446744073709551616}`,
		"far too large": `{"counter":99999999999999999999}`,
		"exponent":      `{"counter":1e3}`,
		"trailing text": `{"counter":1} trailing`,
		"second object": `{"counter":1}{"x":2}`,
		"wrong case":    `{"COUNTER":3}`,
		"array":         `[1]`,
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := r.Dispatch(context.Background(), IncrementCounter, []byte(args))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidArgs), "got %v", err)
		})
	}
}

func TestIncrementCounter_Overflow(t *testing.T) {
	_, err := Double()(math.MaxUint64/2 + 1)
	assert.True(t, errors.Is(err, ErrOverflow))

	v, err := Double()(math.MaxUint64 / 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64-1), v)

	_, err = Step(2)(math.MaxUint64 - 1)
	assert.True(t, errors.Is(err, ErrOverflow))
}

func TestDispatch_UnknownCommand(t *testing.T) {
	r := NewRegistry()

	_, err := r.Dispatch(context.Background(), "decrement_counter", []byte(`{}`))
	assert.True(t, errors.Is(err, ErrUnknownCommand))
}

func TestDispatch_RecoversPanics(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("explode", func(context.Context, []byte) (any, error) {
		panic("kaboom")
	}))

	out, err := r.Dispatch(context.Background(), "explode", nil)
	assert.Nil(t, out)
	assert.True(t, errors.Is(err, ErrHandlerPanic))
	assert.Contains(t, err.Error(), "kaboom")
}

func TestDispatch_CancelledContext(t *testing.T) {
	r := newCounterRegistry(t, Double())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Dispatch(ctx, IncrementCounter, []byte(`{"counter":1}`))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRegister_Validation(t *testing.T) {
	r := NewRegistry()
	h := NewIncrementCounter(Double())

	assert.Error(t, r.Register("", h))
	assert.Error(t, r.Register("x", nil))
	require.NoError(t, r.Register("x", h))
	assert.Error(t, r.Register("x", h))
	assert.Equal(t, []string{"x"}, r.Names())
}

func TestPolicyByName(t *testing.T) {
	p, err := PolicyByName("double", 0)
	require.NoError(t, err)
	v, _ := p(3)
	assert.EqualValues(t, 6, v)

	p, err = PolicyByName("step", 5)
	require.NoError(t, err)
	v, _ = p(3)
	assert.EqualValues(t, 8, v)

	_, err = PolicyByName("step", 0)
	assert.Error(t, err)
	_, err = PolicyByName("halve", 1)
	assert.Error(t, err)
}
