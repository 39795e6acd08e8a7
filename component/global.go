package component

import "sync/atomic"

var global atomic.Pointer[Registry]

// SetGlobal installs r as the process-wide registry read by unbound Lazy
// handles. It can be called once.
func SetGlobal(r *Registry) error {
	if !global.CompareAndSwap(nil, r) {
		return ErrGlobalSet
	}
	return nil
}

// Global returns the registry installed by SetGlobal.
func Global() (*Registry, bool) {
	r := global.Load()
	return r, r != nil
}
