package command

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownCommand is returned when no handler is registered for an id.
var ErrUnknownCommand = errors.New("unknown command")

// Handler executes one command. Args are the opaque values stored on
// command entries; macro steps never pass any.
type Handler func(ctx context.Context, args ...any) error

// Dispatcher invokes commands by id and waits for them to complete.
type Dispatcher interface {
	Invoke(ctx context.Context, commandID string, args ...any) error
}

// Registry is the in-process Dispatcher.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds id to h, replacing any previous binding.
func (r *Registry) Register(id string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[id] = h
}

func (r *Registry) Invoke(ctx context.Context, commandID string, args ...any) error {
	r.mu.RLock()
	h, ok := r.handlers[commandID]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, commandID)
	}
	return h(ctx, args...)
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[id]
	return ok
}

// IDs lists registered command ids, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.handlers))
	for id := range r.handlers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// StringArgs converts opaque args to strings, skipping non-string values.
func StringArgs(args []any) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if s, ok := a.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
