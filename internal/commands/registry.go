// Package commands implements the native command layer: a table of named
// handlers invoked with JSON-encoded named arguments.
package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidArgs    = errors.New("invalid arguments")
	ErrOverflow       = errors.New("counter overflow")
	ErrHandlerPanic   = errors.New("command handler panicked")
)

// Handler runs one command. args holds the raw JSON object of named
// arguments; the returned value is JSON-encoded by the registry.
type Handler func(ctx context.Context, args []byte) (any, error)

// Typed adapts a function over a decoded argument struct into a Handler.
// Argument names must match the json tags exactly; unknown names and data
// after the argument object are rejected.
func Typed[A any, R any](fn func(ctx context.Context, args A) (R, error)) Handler {
	names := argumentNames(reflect.TypeOf((*A)(nil)).Elem())

	return func(ctx context.Context, raw []byte) (any, error) {
		var args A
		if len(bytes.TrimSpace(raw)) > 0 {
			if err := decodeArgs(raw, names, &args); err != nil {
				return nil, errors.Wrap(ErrInvalidArgs, err.Error())
			}
		}
		return fn(ctx, args)
	}
}

func decodeArgs(raw []byte, names map[string]bool, out any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}

	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		return errors.New("unexpected data after arguments")
	}

	if names == nil {
		return nil
	}

	// the decoder matches field names case-insensitively
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return err
	}
	for key := range keys {
		if !names[key] {
			return errors.Errorf("unknown argument %q", key)
		}
	}
	return nil
}

// argumentNames lists the JSON names of a struct's exported fields, or nil
// for non-struct argument types.
func argumentNames(t reflect.Type) map[string]bool {
	if t.Kind() != reflect.Struct {
		return nil
	}

	names := make(map[string]bool, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		switch name {
		case "-":
			continue
		case "":
			name = field.Name
		}
		names[name] = true
	}
	return names
}

type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
	}
}

func (r *Registry) Register(name string, handler Handler) error {
	if name == "" {
		return errors.New("command name must not be empty")
	}
	if handler == nil {
		return errors.Errorf("command %q: nil handler", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[name]; exists {
		return errors.Errorf("command %q already registered", name)
	}
	r.handlers[name] = handler
	return nil
}

// Names lists registered commands in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs the named command and returns its JSON-encoded result.
// A panicking handler is reported as ErrHandlerPanic rather than crashing
// the caller.
func (r *Registry) Dispatch(ctx context.Context, name string, args []byte) (result []byte, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	handler, ok := r.handlers[name]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(ErrUnknownCommand, "%q", name)
	}

	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = errors.Wrap(ErrHandlerPanic, fmt.Sprint(rec))
		}
	}()

	value, err := handler(ctx, args)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s result", name)
	}
	return encoded, nil
}
