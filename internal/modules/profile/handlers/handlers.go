// Package handlers provides the HTTP handler for profile generation.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/doppai/persona-api/internal/domain"
	"github.com/doppai/persona-api/internal/modules/profile"
)

// Handler provides HTTP handlers for profile endpoints
type Handler struct {
	service *profile.Service
	log     zerolog.Logger
}

// NewHandler creates a new profile handler
func NewHandler(service *profile.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "profile").Logger(),
	}
}

// RegisterRoutes registers profile routes on the router
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/profile/generate", h.HandleGenerate)
}

type generateRequest struct {
	Posts *[]domain.Post `json:"posts"`
}

type generateResponse struct {
	ID            string `json:"id"`
	Profile       string `json:"profile"`
	Provenance    string `json:"provenance"`
	AnalyzedPosts int    `json:"analyzedPosts"`
	Timestamp     int64  `json:"timestamp"`
}

// HandleGenerate handles POST /api/profile/generate
// Generation never fails outward: the service degrades through keyword and
// heuristic fallbacks and the response carries the provenance of whichever
// level produced the text.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Posts == nil {
		http.Error(w, "Posts array is required", http.StatusBadRequest)
		return
	}

	result := h.service.Generate(r.Context(), *req.Posts)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(generateResponse{
		ID:            result.ID,
		Profile:       result.Content,
		Provenance:    string(result.Provenance),
		AnalyzedPosts: len(*req.Posts),
		Timestamp:     time.Now().UnixMilli(),
	})
}
