package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// Pinger checks the database connection
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler serves the greeting and liveness endpoints
type HealthHandler struct {
	BaseHandler
	db Pinger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db Pinger, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		BaseHandler: BaseHandler{logger: logger},
		db:          db,
	}
}

// RegisterRoutes registers the routes on the root router
func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Home)
	r.Get("/hello", h.Hello)
	r.Get("/health", h.Health)
}

// Home handles GET /
func (h *HealthHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.respondText(w, "Hello, Krishi Saarathi is running!")
}

// Hello handles GET /hello
func (h *HealthHandler) Hello(w http.ResponseWriter, r *http.Request) {
	h.respondText(w, "Hello from Krishi Saarathi!")
}

// Health handles GET /health and reports whether the database is reachable
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		h.respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthHandler) respondText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		h.logger.Error("failed to write response", zap.Error(err))
	}
}
