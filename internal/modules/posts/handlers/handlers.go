// Package handlers provides HTTP handlers for post fetching and the
// single-slot cache endpoints.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/doppai/persona-api/internal/apierrors"
	"github.com/doppai/persona-api/internal/domain"
	"github.com/doppai/persona-api/internal/modules/posts"
)

// Handler provides HTTP handlers for post endpoints
type Handler struct {
	service *posts.Service
	log     zerolog.Logger
}

// NewHandler creates a new posts handler
func NewHandler(service *posts.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "posts").Logger(),
	}
}

// RegisterRoutes registers post routes on the router
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/posts/fetch", h.HandleFetch)
	r.Get("/posts/cached", h.HandleCached)
	r.Post("/cache/clear", h.HandleClearCache)
}

type fetchRequest struct {
	Handle   string `json:"handle"`
	MaxCount int    `json:"maxCount"`
}

type fetchResponse struct {
	Posts  []domain.Post `json:"posts"`
	Handle string        `json:"handle"`
	Source string        `json:"source"`
}

// HandleFetch handles POST /api/posts/fetch
// Always refetches from the upstream API; an unresolvable handle is an
// explicit 404 so the UI can render "user not found" instead of a silent
// empty profile.
func (h *Handler) HandleFetch(w http.ResponseWriter, r *http.Request) {
	var req fetchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Handle == "" {
		http.Error(w, "Handle is required", http.StatusBadRequest)
		return
	}
	if req.MaxCount <= 0 {
		req.MaxCount = 15
	}

	fetched, err := h.service.Fetch(r.Context(), req.Handle, req.MaxCount)
	if err != nil {
		if apierrors.IsNotFound(err) {
			h.log.Info().Str("handle", req.Handle).Msg("Handle not found")
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error":  "user not found",
				"handle": req.Handle,
			})
			return
		}

		h.log.Warn().
			Err(err).
			Str("handle", req.Handle).
			Str("kind", apierrors.KindOf(err).String()).
			Msg("Fetch failed, applying substitution policy")
		writeJSON(w, http.StatusOK, fetchResponse{
			Posts:  h.service.Substitute(),
			Handle: req.Handle,
			Source: posts.SourceFallback,
		})
		return
	}

	writeJSON(w, http.StatusOK, fetchResponse{
		Posts:  fetched,
		Handle: req.Handle,
		Source: posts.SourceFresh,
	})
}

type cachedResponse struct {
	Success   bool          `json:"success"`
	Posts     []domain.Post `json:"posts"`
	Source    string        `json:"source"`
	Cached    bool          `json:"cached"`
	Timestamp int64         `json:"timestamp"`
}

// HandleCached handles GET /api/posts/cached?force=true
func (h *Handler) HandleCached(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "true"

	result, err := h.service.Cached(r.Context(), force)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get cached posts")
		http.Error(w, "Failed to get cached posts", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, cachedResponse{
		Success:   true,
		Posts:     result.Posts,
		Source:    result.Source,
		Cached:    result.Cached,
		Timestamp: result.Timestamp.UnixMilli(),
	})
}

// HandleClearCache handles POST /api/cache/clear
// Clearing an already-empty cache succeeds.
func (h *Handler) HandleClearCache(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearCache(); err != nil {
		h.log.Error().Err(err).Msg("Failed to clear cache")
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"error":   "Failed to clear cache",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"message":   "Cache cleared successfully",
		"timestamp": time.Now().UnixMilli(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
