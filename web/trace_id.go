package web

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/leeforge/autumn/logging"
)

// TraceIDHeader is the HTTP header carrying the trace ID.
const TraceIDHeader = "X-Trace-ID"

// TraceIDMiddleware adds a trace ID to each request.
// An incoming X-Trace-ID header is reused, otherwise a new UUID is generated.
// The ID is echoed in the response and stored where logging.GetTraceID finds it.
func TraceIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		w.Header().Set(TraceIDHeader, traceID)
		ctx := logging.SetTraceID(r.Context(), traceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetTraceIDFromRequest retrieves the trace ID from the request context.
func GetTraceIDFromRequest(r *http.Request) string {
	return logging.GetTraceID(r.Context())
}
