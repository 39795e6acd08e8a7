package web

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/leeforge/autumn/component"
	"github.com/leeforge/autumn/config"
	"github.com/leeforge/autumn/metrics"
	"github.com/leeforge/autumn/plugin"
)

const (
	StatusUp   = "UP"
	StatusDown = "DOWN"
)

const healthTimeout = 5 * time.Second

// sensitiveKeys are masked in /actuator/config.
var sensitiveKeys = []string{"password", "secret", "token", "credential", "key"}

// HealthResponse is the body of /actuator/health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// ComponentsResponse is the body of /actuator/components.
type ComponentsResponse struct {
	Components []string `json:"components"`
}

// Mapping is one registered route in /actuator/mappings.
type Mapping struct {
	Method string `json:"method"`
	Route  string `json:"route"`
}

type actuator struct {
	root       chi.Routes
	components *component.Registry
	store      *config.Store
}

// MountActuator adds the /actuator routes backed by the given registry and
// configuration.
func MountActuator(r chi.Router, components *component.Registry, store *config.Store) {
	a := &actuator{root: r, components: components, store: store}
	r.Route("/actuator", func(r chi.Router) {
		r.Get("/health", a.health)
		r.Get("/components", a.listComponents)
		r.Get("/config", a.config)
		r.Get("/mappings", a.mappings)
		r.Get("/metrics", a.metrics)
	})
}

func (a *actuator) health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: StatusUp}

	checks, ok := component.Get[*plugin.HealthChecks](a.components)
	if ok {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		failures := checks.Run(ctx)
		resp.Checks = make(map[string]string, len(checks.Names()))
		for _, name := range checks.Names() {
			if err, failed := failures[name]; failed {
				resp.Checks[name] = StatusDown + ": " + err.Error()
				resp.Status = StatusDown
				continue
			}
			resp.Checks[name] = StatusUp
		}
	}

	status := http.StatusOK
	if resp.Status == StatusDown {
		status = http.StatusServiceUnavailable
	}
	WriteJSON(w, r, status, resp)
}

func (a *actuator) listComponents(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, r, http.StatusOK, ComponentsResponse{Components: a.components.Names()})
}

func (a *actuator) config(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, r, http.StatusOK, sanitize(a.store.AllSettings()))
}

func (a *actuator) mappings(w http.ResponseWriter, r *http.Request) {
	routes, err := Routes(a.root)
	if err != nil {
		WriteJSON(w, r, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	WriteJSON(w, r, http.StatusOK, routes)
}

func (a *actuator) metrics(w http.ResponseWriter, r *http.Request) {
	collector, ok := component.Get[*metrics.Collector](a.components)
	if !ok {
		WriteJSON(w, r, http.StatusOK, map[string]*metrics.Metric{})
		return
	}
	WriteJSON(w, r, http.StatusOK, collector.Snapshot())
}

// Routes lists every route registered on r, sorted by route then method.
func Routes(r chi.Routes) ([]Mapping, error) {
	var routes []Mapping
	walkFunc := func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, Mapping{Method: method, Route: strings.ReplaceAll(route, "/*/", "/")})
		return nil
	}
	if err := chi.Walk(r, walkFunc); err != nil {
		return nil, err
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Route != routes[j].Route {
			return routes[i].Route < routes[j].Route
		}
		return routes[i].Method < routes[j].Method
	})
	return routes, nil
}

// sanitize masks values whose key looks like a credential.
func sanitize(settings map[string]any) map[string]any {
	out := make(map[string]any, len(settings))
	for k, v := range settings {
		if isSensitive(k) {
			out[k] = "******"
			continue
		}
		if table, ok := v.(map[string]any); ok {
			out[k] = sanitize(table)
			continue
		}
		out[k] = v
	}
	return out
}

func isSensitive(key string) bool {
	key = strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(key, s) {
			return true
		}
	}
	return false
}
