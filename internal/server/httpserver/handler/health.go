package handler

import (
	"net/http"
	"time"

	"github.com/symetrix360/portal-go/internal/core/domain"
)

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready handles GET /ready. The service is ready once the persisted
// session has been restored.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	select {
	case <-h.auth.Ready():
	default:
		w.Header().Set("Retry-After", "1")
		WriteError(w, r, domain.ErrNotReady, nil)
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
