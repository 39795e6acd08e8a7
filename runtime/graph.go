package runtime

import (
	"fmt"
	"strings"

	apperrors "github.com/leeforge/autumn/errors"
)

// MissingDependency names a plugin and a dependency that was never registered.
type MissingDependency struct {
	Plugin     string
	Dependency string
}

// DependencyError reports a plugin graph that cannot be ordered: either some
// dependencies are not registered, or the listed plugins wait on each other.
type DependencyError struct {
	Missing []MissingDependency
	Stuck   []string
}

func (e *DependencyError) Error() string {
	if len(e.Missing) > 0 {
		parts := make([]string, len(e.Missing))
		for i, m := range e.Missing {
			parts[i] = fmt.Sprintf("plugin %q depends on %q which is not registered", m.Plugin, m.Dependency)
		}
		return strings.Join(parts, "; ")
	}
	return fmt.Sprintf("plugins stuck on unresolved or cyclic dependencies: %s", strings.Join(e.Stuck, ", "))
}

func (e *DependencyError) Kind() apperrors.ErrorType { return apperrors.ErrorTypeDependency }

// resolveOrder returns names ordered so every plugin follows its dependencies.
// Each pass walks the pending plugins in registration order and emits every
// plugin whose dependencies are already emitted, including ones emitted
// earlier in the same pass. A pass without progress leaves the cycle and its dependents stuck.
// done holds plugins built before ordering starts; depending on them is allowed.
func resolveOrder(names []string, deps map[string][]string, done []string) ([]string, error) {
	known := make(map[string]bool, len(names)+len(done))
	emitted := make(map[string]bool, len(names)+len(done))
	for _, n := range names {
		known[n] = true
	}
	for _, n := range done {
		known[n] = true
		emitted[n] = true
	}

	var missing []MissingDependency
	for _, n := range names {
		for _, dep := range deps[n] {
			if !known[dep] {
				missing = append(missing, MissingDependency{Plugin: n, Dependency: dep})
			}
		}
	}
	if len(missing) > 0 {
		return nil, &DependencyError{Missing: missing}
	}

	order := make([]string, 0, len(names))
	pending := append([]string(nil), names...)
	for len(pending) > 0 {
		next := pending[:0:0]
		for _, n := range pending {
			if ready(deps[n], emitted) {
				order = append(order, n)
				emitted[n] = true
			} else {
				next = append(next, n)
			}
		}
		if len(next) == len(pending) {
			return nil, &DependencyError{Stuck: next}
		}
		pending = next
	}
	return order, nil
}

func ready(deps []string, emitted map[string]bool) bool {
	for _, dep := range deps {
		if !emitted[dep] {
			return false
		}
	}
	return true
}
