package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fernweh-labs/unseen/internal/core/domain"
	"github.com/fernweh-labs/unseen/internal/core/ports"
	"github.com/fernweh-labs/unseen/internal/core/services"
)

type discoverRequest struct {
	City             string   `json:"city"`
	Vibe             string   `json:"vibe"`
	MinRating        *float64 `json:"min_rating,omitempty"`
	MaxReviewCount   *int     `json:"max_review_count,omitempty"`
	SearchRadiusM    *int     `json:"search_radius_m,omitempty"`
	ProximityRadiusM *float64 `json:"proximity_radius_m,omitempty"`
}

// Discover handles POST /discover
func (h *Handler) Discover(w http.ResponseWriter, r *http.Request) {
	// 1. Decode Request
	var req discoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// 2. Call Service
	result, err := h.svc.Discover(r.Context(), services.DiscoverRequest{
		City:             req.City,
		Vibe:             req.Vibe,
		MinRating:        req.MinRating,
		MaxReviewCount:   req.MaxReviewCount,
		SearchRadiusM:    req.SearchRadiusM,
		ProximityRadiusM: req.ProximityRadiusM,
	})
	if err != nil {
		writePipelineError(w, err)
		return
	}

	// 3. Respond
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// GetRun handles GET /runs/{id}
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("id")
	if h.store == nil {
		http.Error(w, "run recording is disabled", http.StatusNotFound)
		return
	}

	snap, err := h.store.LoadRun(r.Context(), runID)
	if err != nil {
		if errors.Is(err, ports.ErrRunNotFound) {
			http.Error(w, "run not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// ReplayRun handles POST /runs/{id}/replay
func (h *Handler) ReplayRun(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("id")

	result, err := h.svc.Replay(r.Context(), runID)
	if err != nil {
		if errors.Is(err, ports.ErrRunNotFound) {
			http.Error(w, "run not found", http.StatusNotFound)
			return
		}
		writePipelineError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// writePipelineError maps service errors onto HTTP statuses: validation
// failures are the client's fault, a fatal search boundary is an upstream
// failure, anything else is ours.
func writePipelineError(w http.ResponseWriter, err error) {
	var invalid *services.ValidationError
	var fatal *domain.FatalError
	switch {
	case errors.As(err, &invalid):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &fatal):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
