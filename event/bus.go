// Package event is a small, reflect.Type-keyed publish/subscribe bus,
// adapted from the teacher's EventBus (eventbus.go). It is a standalone
// companion utility: weft's core never imports it, per spec.md §1's note
// that any event-bus utility is unrelated to the entity/component core.
package event

import "reflect"

// Bus dispatches published values to every handler subscribed to their
// concrete type.
type Bus struct {
	handlers map[reflect.Type][]func(any)
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[reflect.Type][]func(any))}
}

// Subscribe registers fn to run on every value of type T published after
// this call.
func Subscribe[T any](b *Bus, fn func(T)) {
	t := reflect.TypeFor[T]()
	b.handlers[t] = append(b.handlers[t], func(v any) {
		fn(v.(T))
	})
}

// Publish runs every handler subscribed to T's type, in subscription
// order.
func Publish[T any](b *Bus, value T) {
	t := reflect.TypeFor[T]()
	for _, fn := range b.handlers[t] {
		fn(value)
	}
}

// Clear drops every subscription.
func (b *Bus) Clear() {
	b.handlers = make(map[reflect.Type][]func(any))
}
