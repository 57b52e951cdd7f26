// Package bus routes commands and queries to their handlers by message key.
package bus

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Command is a write intent. Query is a read request. Both are routed by Key,
// which must not depend on field values.
type Command interface {
	Key() string
}

type Query interface {
	Key() string
}

type Handler[M any, R any] interface {
	Handle(ctx context.Context, msg M) (R, error)
}

type HandlerFunc[M any, R any] func(ctx context.Context, msg M) (R, error)

func (f HandlerFunc[M, R]) Handle(ctx context.Context, msg M) (R, error) {
	return f(ctx, msg)
}

type CommandBus interface {
	Dispatch(ctx context.Context, cmd Command) (any, error)
}

type QueryBus interface {
	Ask(ctx context.Context, q Query) (any, error)
}

var (
	ErrHandlerNotFound  = errors.New("bus: handler not found")
	ErrDuplicateHandler = errors.New("bus: handler already registered")
	ErrMessageType      = errors.New("bus: message type mismatch")
	ErrResultType       = errors.New("bus: result type mismatch")
	ErrNilBus           = errors.New("bus: nil bus")
)

type route func(ctx context.Context, msg any) (any, error)

type registry struct {
	mu     sync.RWMutex
	routes map[string]route
}

func (r *registry) add(key string, fn route) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrMessageType)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.routes == nil {
		r.routes = make(map[string]route)
	}
	if _, exists := r.routes[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateHandler, key)
	}
	r.routes[key] = fn
	return nil
}

func (r *registry) call(ctx context.Context, key string, msg any) (any, error) {
	r.mu.RLock()
	fn, ok := r.routes[key]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrHandlerNotFound, key)
	}
	return fn(ctx, msg)
}

func (r *registry) keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.routes))
	for k := range r.routes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func typed[M any, R any](key string, h Handler[M, R]) route {
	return func(ctx context.Context, raw any) (any, error) {
		msg, ok := raw.(M)
		if !ok {
			return nil, fmt.Errorf("%w: %s got %T", ErrMessageType, key, raw)
		}
		return h.Handle(ctx, msg)
	}
}

// Commands is the in-process command router.
type Commands struct {
	reg registry
}

func NewCommands() *Commands { return &Commands{} }

func (b *Commands) Dispatch(ctx context.Context, cmd Command) (any, error) {
	return b.reg.call(ctx, cmd.Key(), cmd)
}

func (b *Commands) Keys() []string { return b.reg.keys() }

// Queries is the in-process query router.
type Queries struct {
	reg registry
}

func NewQueries() *Queries { return &Queries{} }

func (b *Queries) Ask(ctx context.Context, q Query) (any, error) {
	return b.reg.call(ctx, q.Key(), q)
}

func (b *Queries) Keys() []string { return b.reg.keys() }

// HandleCommand registers h under the key reported by C's zero value.
func HandleCommand[C Command, R any](b *Commands, h Handler[C, R]) error {
	if b == nil {
		return ErrNilBus
	}
	var zero C
	return b.reg.add(zero.Key(), typed[C, R](zero.Key(), h))
}

func HandleQuery[Q Query, R any](b *Queries, h Handler[Q, R]) error {
	if b == nil {
		return ErrNilBus
	}
	var zero Q
	return b.reg.add(zero.Key(), typed[Q, R](zero.Key(), h))
}

// Dispatch sends cmd and asserts the result type.
func Dispatch[C Command, R any](ctx context.Context, b CommandBus, cmd C) (R, error) {
	var zero R
	if b == nil {
		return zero, ErrNilBus
	}
	res, err := b.Dispatch(ctx, cmd)
	if err != nil {
		return zero, err
	}
	return cast[R](res)
}

func Ask[Q Query, R any](ctx context.Context, b QueryBus, q Q) (R, error) {
	var zero R
	if b == nil {
		return zero, ErrNilBus
	}
	res, err := b.Ask(ctx, q)
	if err != nil {
		return zero, err
	}
	return cast[R](res)
}

func cast[R any](res any) (R, error) {
	var zero R
	if res == nil {
		return zero, nil
	}
	value, ok := res.(R)
	if !ok {
		return zero, fmt.Errorf("%w: got %T", ErrResultType, res)
	}
	return value, nil
}

// CommandFunc and QueryFunc let middleware wrap a bus without a named type.
type CommandFunc func(ctx context.Context, cmd Command) (any, error)

func (f CommandFunc) Dispatch(ctx context.Context, cmd Command) (any, error) { return f(ctx, cmd) }

type QueryFunc func(ctx context.Context, q Query) (any, error)

func (f QueryFunc) Ask(ctx context.Context, q Query) (any, error) { return f(ctx, q) }
