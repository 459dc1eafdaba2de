// Package eventbus is a small in-process dispatcher the generator publishes
// lifecycle events through. Observability backends subscribe to it instead
// of being threaded through the codegen call graph.
package eventbus

import (
	"context"
	"reflect"
	"sync"
	"sync/atomic"
)

// Handler processes events of type T.
type Handler[T any] func(context.Context, T)

type registration struct {
	id int
	fn func(context.Context, any)
}

// Bus dispatches events to handlers keyed by the event's dynamic type.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[reflect.Type][]registration
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{handlers: make(map[reflect.Type][]registration)}
}

func (b *Bus) subscribe(t reflect.Type, fn func(context.Context, any)) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.handlers[t] = append(b.handlers[t], registration{id: id, fn: fn})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		regs := b.handlers[t]
		for i, r := range regs {
			if r.id == id {
				b.handlers[t] = append(regs[:i:i], regs[i+1:]...)
				break
			}
		}
		if len(b.handlers[t]) == 0 {
			delete(b.handlers, t)
		}
	}
}

func (b *Bus) publish(ctx context.Context, e any) {
	if b == nil {
		return
	}
	b.mu.RLock()
	regs := append([]registration(nil), b.handlers[reflect.TypeOf(e)]...)
	b.mu.RUnlock()
	for _, r := range regs {
		r.fn(ctx, e)
	}
}

var global atomic.Pointer[Bus]

// Use installs b as the global bus. Passing nil disables event publishing.
func Use(b *Bus) { global.Store(b) }

// Subscribe registers h with the global bus.
func Subscribe[T any](h Handler[T]) (unsubscribe func()) {
	b := global.Load()
	if b == nil {
		return func() {}
	}
	t := reflect.TypeOf((*T)(nil)).Elem()
	return b.subscribe(t, func(ctx context.Context, v any) { h(ctx, v.(T)) })
}

// Publish sends e through the global bus.
func Publish[T any](ctx context.Context, e T) {
	if b := global.Load(); b != nil {
		b.publish(ctx, e)
	}
}
