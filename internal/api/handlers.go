package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/mwalton/price-tracker/internal/database"
	"github.com/mwalton/price-tracker/internal/extract"
	"github.com/mwalton/price-tracker/internal/notify"
	"github.com/mwalton/price-tracker/internal/tracker"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	tracker  *tracker.Service
	producer *notify.Producer
}

// NewHandler creates a new Handler. producer may be nil when Kafka
// publishing is disabled.
func NewHandler(tracker *tracker.Service, producer *notify.Producer) *Handler {
	return &Handler{
		tracker:  tracker,
		producer: producer,
	}
}

// ListURLs handles GET /urls
func (h *Handler) ListURLs(w http.ResponseWriter, r *http.Request) {
	tracked, err := h.tracker.ListURLs(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, tracked)
}

// AddURL handles POST /urls
func (h *Handler) AddURL(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.URL == "" {
		http.Error(w, "url is required", http.StatusBadRequest)
		return
	}

	tracked, created, err := h.tracker.AddURL(r.Context(), req.URL)
	if errors.Is(err, extract.ErrExtractionFailed) {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if !created {
		respondJSON(w, http.StatusOK, map[string]string{"status": "already tracked"})
		return
	}

	respondJSON(w, http.StatusCreated, tracked)
}

// RemoveURL handles DELETE /urls?url=
func (h *Handler) RemoveURL(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		http.Error(w, "url is required", http.StatusBadRequest)
		return
	}

	err := h.tracker.RemoveURL(r.Context(), url)
	if errors.Is(err, database.ErrNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CheckNow handles POST /check and runs a check cycle immediately
func (h *Handler) CheckNow(w http.ResponseWriter, r *http.Request) {
	result, err := h.tracker.CheckAllPrices(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if h.producer != nil {
		if err := h.producer.PublishChanges(r.Context(), result); err != nil {
			// Publishing is best effort; the check itself succeeded
			log.Printf("Failed to publish change events: %v", err)
		}
	}

	respondJSON(w, http.StatusOK, result)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
