// Package api provides the admin HTTP API for webhook management: endpoint
// CRUD, delivery log inspection and retry, test sends, failure summaries,
// and the business-event ingress used by the rest of the platform.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	gateflow "github.com/pavvel11/gateflow-sub005"
	"github.com/pavvel11/gateflow-sub005/endpoint"
)

// Handler is the root HTTP handler for the admin API.
type Handler struct {
	hub    *gateflow.Hub
	logger *slog.Logger
	mux    *http.ServeMux
}

// NewHandler creates a new admin API handler over the hub.
func NewHandler(hub *gateflow.Hub, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	h := &Handler{
		hub:    hub,
		logger: logger,
		mux:    http.NewServeMux(),
	}

	h.registerRoutes()
	return h
}

func (h *Handler) registerRoutes() {
	// Endpoints
	h.mux.HandleFunc("POST /endpoints", h.createEndpoint)
	h.mux.HandleFunc("GET /endpoints", h.listEndpoints)
	h.mux.HandleFunc("GET /endpoints/{id}", h.getEndpoint)
	h.mux.HandleFunc("PUT /endpoints/{id}", h.updateEndpoint)
	h.mux.HandleFunc("DELETE /endpoints/{id}", h.deleteEndpoint)
	h.mux.HandleFunc("PATCH /endpoints/{id}/activate", h.activateEndpoint)
	h.mux.HandleFunc("PATCH /endpoints/{id}/deactivate", h.deactivateEndpoint)
	h.mux.HandleFunc("GET /endpoints/{id}/secret", h.getSecret)
	h.mux.HandleFunc("POST /endpoints/{id}/rotate-secret", h.rotateSecret)
	h.mux.HandleFunc("POST /endpoints/{id}/test", h.testSend)

	// Delivery log
	h.mux.HandleFunc("GET /endpoints/{id}/attempts", h.listAttempts)
	h.mux.HandleFunc("GET /attempts/{id}", h.getAttempt)
	h.mux.HandleFunc("POST /attempts/{id}/retry", h.retryAttempt)
	h.mux.HandleFunc("POST /attempts/{id}/archive", h.archiveAttempt)

	// Event ingress and taxonomy
	h.mux.HandleFunc("POST /publish", h.publish)
	h.mux.HandleFunc("GET /event-types", h.listEventTypes)

	// Aggregations
	h.mux.HandleFunc("GET /failures", h.listFailures)
	h.mux.HandleFunc("GET /stats", h.getStats)
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.withMiddleware(h.mux).ServeHTTP(w, r)
}

func (h *Handler) withMiddleware(next http.Handler) http.Handler {
	return h.panicRecovery(h.logging(next))
}

func (h *Handler) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		h.logger.Info("api request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (h *Handler) panicRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.logger.Error("panic recovered",
					"error", rec,
					"stack", string(debug.Stack()),
				)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// writeServiceError maps domain errors onto HTTP responses. Validation
// failures identify the offending field; a waitlist warning is a 409 the
// client can resolve by repeating the call with ?confirm=true.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var verr *endpoint.ValidationError
	var warn *endpoint.WaitlistWarning

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": verr.Message,
			"field": verr.Field,
		})
	case errors.As(err, &warn):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":              warn.Error(),
			"warning":            "waitlist_dependency",
			"dependent_products": warn.DependentProducts,
		})
	case errors.Is(err, gateflow.ErrEndpointNotFound):
		writeError(w, http.StatusNotFound, "endpoint not found")
	case errors.Is(err, gateflow.ErrAttemptNotFound):
		writeError(w, http.StatusNotFound, "attempt not found")
	case errors.Is(err, gateflow.ErrAttemptNotArchivable):
		writeError(w, http.StatusConflict, "only failed attempts can be archived")
	case errors.Is(err, gateflow.ErrUnknownEventType):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, gateflow.ErrPayloadValidationFailed):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// JSON helpers.

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best effort
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// queryParam returns a query parameter value, or empty string if not present.
func queryParam(r *http.Request, key string) string {
	return r.URL.Query().Get(key)
}

// queryInt returns a query parameter as int or a default value.
func queryInt(r *http.Request, key string, defaultVal int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return defaultVal
	}
	var n int
	for _, c := range v {
		if c < '0' || c > '9' {
			return defaultVal
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// confirmParam reports whether the request carries ?confirm=true.
func confirmParam(r *http.Request) bool {
	return queryParam(r, "confirm") == "true"
}
