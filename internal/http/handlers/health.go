package handlers

import (
	"net/http"
	"time"

	"github.com/hongminglow/blog-be/internal/http/respond"
)

// HealthHandler returns uptime and basic status.
type HealthHandler struct {
	startedAt time.Time
	env       string
}

// NewHealthHandler creates a health endpoint handler.
func NewHealthHandler(startedAt time.Time, env string) *HealthHandler {
	return &HealthHandler{startedAt: startedAt, env: env}
}

// Register wires the handler into a ServeMux.
func (h *HealthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.handle)
}

func (h *HealthHandler) handle(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, "", map[string]string{
		"status": "ok",
		"env":    h.env,
		"uptime": time.Since(h.startedAt).Truncate(time.Second).String(),
	})
}
