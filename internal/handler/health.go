package handler

import (
	"net/http"

	"github.com/annalabs/widget-proxy/internal/dispatch"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	dispatcher *dispatch.Dispatcher
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(d *dispatch.Dispatcher) *HealthHandler {
	return &HealthHandler{
		dispatcher: d,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.dispatcher == nil || !h.dispatcher.Running() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "log dispatcher not running",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
