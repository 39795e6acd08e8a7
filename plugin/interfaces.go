package plugin

import (
	"context"
	"reflect"
)

// Plugin is the minimal interface every plugin must implement. Build may
// block on I/O; ctx is the startup context and plugins use it to bound their
// own waits.
type Plugin interface {
	Build(ctx context.Context, b *Builder) error
}

// --- Optional Capability Interfaces ---
// The runtime detects these via type assertion: if n, ok := p.(Named); ok { ... }

// Named -- unique plugin name. Without it the name is derived from the type.
type Named interface {
	Name() string
}

// Dependent -- names of plugins that must finish building first.
type Dependent interface {
	Dependencies() []string
}

// Immediate -- built before every ordered plugin. Immediate plugins cannot
// declare dependencies.
type Immediate interface {
	Immediate() bool
}

// NameOf returns the plugin's name: Name() when implemented, otherwise the
// package-qualified type name ("web.WebPlugin" for *web.WebPlugin).
func NameOf(p Plugin) string {
	if n, ok := p.(Named); ok {
		return n.Name()
	}
	t := reflect.TypeOf(p)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.String()
}

// DependenciesOf returns the declared dependencies, or nil.
func DependenciesOf(p Plugin) []string {
	if d, ok := p.(Dependent); ok {
		return d.Dependencies()
	}
	return nil
}

// IsImmediate reports whether p asked to be built before ordered plugins.
func IsImmediate(p Plugin) bool {
	i, ok := p.(Immediate)
	return ok && i.Immediate()
}

// Func adapts a function to a Plugin with an explicit name and dependencies.
type Func struct {
	PluginName string
	DependsOn  []string
	BuildFunc  func(ctx context.Context, b *Builder) error
}

func (f Func) Name() string           { return f.PluginName }
func (f Func) Dependencies() []string { return f.DependsOn }

func (f Func) Build(ctx context.Context, b *Builder) error {
	if f.BuildFunc == nil {
		return nil
	}
	return f.BuildFunc(ctx, b)
}
