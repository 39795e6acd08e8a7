package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/leeforge/autumn/json"
	"github.com/leeforge/autumn/logging"
	"go.uber.org/zap"
)

// Router is the application HTTP router. The web plugin registers it as a
// component; plugins that depend on "web" fetch it and add their routes.
type Router struct {
	chi.Router
}

// NewRouter creates a router with trace ID, request logging and panic
// recovery middleware installed, followed by any extra middleware.
func NewRouter(logger logging.Logger, middlewares ...func(http.Handler) http.Handler) *Router {
	r := chi.NewRouter()
	r.Use(
		TraceIDMiddleware,
		logging.HTTPMiddleware(logger),
		logging.RecoveryMiddleware,
	)
	r.Use(middlewares...)
	return &Router{Router: r}
}

// WriteJSON writes v with the given status code.
func WriteJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Warn("failed to write response", zap.Error(err))
	}
}
