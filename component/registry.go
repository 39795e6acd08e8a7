package component

import (
	"reflect"
	"sync"
	"sync/atomic"

	apperrors "github.com/leeforge/autumn/errors"
)

// Registry holds one singleton value per concrete type. It is written by a
// single goroutine while plugins build, then frozen; reads after Freeze take
// no lock.
type Registry struct {
	mu         sync.RWMutex
	frozen     atomic.Bool
	components map[reflect.Type]any
	order      []reflect.Type
	pending    []resolver
}

// resolver is a Lazy waiting for the second construction phase.
type resolver interface {
	resolve() error
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		components: make(map[reflect.Type]any),
	}
}

// Register stores value under its concrete dynamic type.
func (r *Registry) Register(value any) error {
	if isNil(value) {
		return ErrNilComponent
	}
	key := reflect.TypeOf(value)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen.Load() {
		return ErrFrozen
	}
	if _, exists := r.components[key]; exists {
		return &DuplicateError{Type: key}
	}
	r.components[key] = value
	r.order = append(r.order, key)
	return nil
}

// MustRegister stores value, panicking on error.
func (r *Registry) MustRegister(value any) {
	if err := r.Register(value); err != nil {
		panic(err)
	}
}

// Freeze rejects all further writes.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen.Store(true)
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	return r.frozen.Load()
}

func (r *Registry) lookup(key reflect.Type) (any, bool) {
	if r.frozen.Load() {
		v, ok := r.components[key]
		return v, ok
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.components[key]
	return v, ok
}

// GetByType returns the component registered under exactly t.
func (r *Registry) GetByType(t reflect.Type) (any, bool) {
	return r.lookup(t)
}

// Len returns the number of registered components.
func (r *Registry) Len() int {
	if r.frozen.Load() {
		return len(r.order)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Names returns the component type names in registration order.
func (r *Registry) Names() []string {
	if !r.frozen.Load() {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}
	names := make([]string, len(r.order))
	for i, t := range r.order {
		names[i] = t.String()
	}
	return names
}

func (r *Registry) enlist(l resolver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.frozen.Load() {
		r.pending = append(r.pending, l)
	}
}

// ResolvePending resolves every Lazy created with NewLazy against this
// registry, each exactly once. It reports every handle whose target is
// still missing.
func (r *Registry) ResolvePending() error {
	r.mu.Lock()
	pending := r.pending
	r.pending = nil
	r.mu.Unlock()

	chain := apperrors.NewErrorChain()
	for _, l := range pending {
		chain.Add(l.resolve())
	}
	return chain.Err()
}

// Get returns the component of exact type T.
func Get[T any](r *Registry) (T, bool) {
	var zero T
	v, ok := r.lookup(reflect.TypeOf((*T)(nil)).Elem())
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}

// TryGet returns the component of exact type T or a NotFoundError.
func TryGet[T any](r *Registry) (T, error) {
	v, ok := Get[T](r)
	if !ok {
		return v, &NotFoundError{Type: reflect.TypeOf((*T)(nil)).Elem()}
	}
	return v, nil
}

// MustGet returns the component of exact type T, panicking if absent.
func MustGet[T any](r *Registry) T {
	v, err := TryGet[T](r)
	if err != nil {
		panic(err)
	}
	return v
}

// Has reports whether a component of exact type T is registered.
func Has[T any](r *Registry) bool {
	_, ok := r.lookup(reflect.TypeOf((*T)(nil)).Elem())
	return ok
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
