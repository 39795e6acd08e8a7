package plugin

import (
	"context"
	"sync"
)

// HealthReporter -- provide a health check, collected once the plugin is built.
type HealthReporter interface {
	HealthCheck(ctx context.Context) error
}

// HealthChecks is the component holding every plugin health check. The
// runtime fills it during the build phase; readers run the checks later.
type HealthChecks struct {
	mu     sync.RWMutex
	names  []string
	checks map[string]func(context.Context) error
}

// NewHealthChecks creates an empty set.
func NewHealthChecks() *HealthChecks {
	return &HealthChecks{checks: make(map[string]func(context.Context) error)}
}

// Add registers check under name, replacing an earlier one.
func (h *HealthChecks) Add(name string, check func(context.Context) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.checks[name]; !exists {
		h.names = append(h.names, name)
	}
	h.checks[name] = check
}

// Run executes every check in registration order and returns the failures
// keyed by name. An empty map means healthy.
func (h *HealthChecks) Run(ctx context.Context) map[string]error {
	h.mu.RLock()
	names := append([]string(nil), h.names...)
	checks := make([]func(context.Context) error, len(names))
	for i, n := range names {
		checks[i] = h.checks[n]
	}
	h.mu.RUnlock()

	failures := make(map[string]error)
	for i, check := range checks {
		if err := check(ctx); err != nil {
			failures[names[i]] = err
		}
	}
	return failures
}

// Names lists the registered checks.
func (h *HealthChecks) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]string(nil), h.names...)
}
