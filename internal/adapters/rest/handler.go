// Package rest exposes the discovery pipeline over HTTP.
package rest

import (
	"encoding/json"
	"net/http"

	"github.com/fernweh-labs/unseen/internal/core/ports"
	"github.com/fernweh-labs/unseen/internal/core/services"
)

// Handler manages the HTTP interface for our application.
type Handler struct {
	svc    *services.Orchestrator // Dependency on the Core Service
	store  ports.SnapshotStore    // Run inspection, may be nil
	router *http.ServeMux         // Standard library router
}

// NewHandler initializes the HTTP adapter and sets up routes.
// store may be nil when run recording is disabled.
func NewHandler(svc *services.Orchestrator, store ports.SnapshotStore) *Handler {
	h := &Handler{
		svc:    svc,
		store:  store,
		router: http.NewServeMux(),
	}

	// Register Routes
	h.routes()

	return h
}

// ServeHTTP satisfies the http.Handler interface.
// It acts as a proxy, passing the request to our internal router.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// routes defines the mapping between URLs and methods.
func (h *Handler) routes() {
	// Health Check
	h.router.HandleFunc("GET /health", h.HealthCheck)
	// Discovery Pipeline
	h.router.HandleFunc("POST /discover", h.Discover)
	// Run Inspection & Replay
	h.router.HandleFunc("GET /runs/{id}", h.GetRun)
	h.router.HandleFunc("POST /runs/{id}/replay", h.ReplayRun)
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok", "message": "Unseen is live 🧭"})
}
