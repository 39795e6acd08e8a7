package component

import (
	"sync"
	"sync/atomic"
)

// Lazy defers the lookup of a component of type T until it is needed. Two
// components that refer to each other hold a Lazy to the other instead of the
// value itself, so neither has to exist when the other is built.
//
// A Lazy made with NewLazy is bound to a registry and resolved by its
// ResolvePending. The zero Lazy resolves against the global registry on first
// Get. Once resolved the value never changes.
type Lazy[T any] struct {
	registry *Registry
	mu       sync.Mutex
	value    atomic.Pointer[T]
}

// NewLazy returns a handle bound to r and enlists it for ResolvePending.
func NewLazy[T any](r *Registry) *Lazy[T] {
	l := &Lazy[T]{registry: r}
	r.enlist(l)
	return l
}

// Get returns the component, looking it up on first call.
func (l *Lazy[T]) Get() (T, error) {
	if v := l.value.Load(); v != nil {
		return *v, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if v := l.value.Load(); v != nil {
		return *v, nil
	}

	r := l.registry
	if r == nil {
		var ok bool
		if r, ok = Global(); !ok {
			var zero T
			return zero, ErrNoGlobal
		}
	}

	v, err := TryGet[T](r)
	if err != nil {
		return v, err
	}
	l.value.Store(&v)
	return v, nil
}

// MustGet returns the component, panicking if it cannot be resolved.
func (l *Lazy[T]) MustGet() T {
	v, err := l.Get()
	if err != nil {
		panic(err)
	}
	return v
}

// Resolved returns the value only if an earlier Get succeeded.
func (l *Lazy[T]) Resolved() (T, bool) {
	if v := l.value.Load(); v != nil {
		return *v, true
	}
	var zero T
	return zero, false
}

func (l *Lazy[T]) resolve() error {
	_, err := l.Get()
	return err
}
