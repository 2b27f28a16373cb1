// Package handlers provides the HTTP handler for persona chat.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/doppai/persona-api/internal/domain"
	"github.com/doppai/persona-api/internal/modules/chat"
)

// Handler provides HTTP handlers for chat endpoints
type Handler struct {
	service *chat.Service
	log     zerolog.Logger
}

// NewHandler creates a new chat handler
func NewHandler(service *chat.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "chat").Logger(),
	}
}

// RegisterRoutes registers chat routes on the router
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.HandleChat)
}

type chatRequest struct {
	Message string                    `json:"message"`
	Profile string                    `json:"profile"`
	History []domain.ConversationTurn `json:"history"`
	Posts   []domain.Post             `json:"posts"`
}

type chatResponse struct {
	ID        string `json:"id"`
	Response  string `json:"response"`
	Source    string `json:"source"`
	Timestamp int64  `json:"timestamp"`
}

// HandleChat handles POST /api/chat
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "Message is required", http.StatusBadRequest)
		return
	}
	if req.Profile == "" {
		http.Error(w, "Profile is required", http.StatusBadRequest)
		return
	}

	result := h.service.Respond(r.Context(), req.Message, req.Profile, req.History, req.Posts)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(chatResponse{
		ID:        uuid.NewString(),
		Response:  result.Text,
		Source:    result.Source,
		Timestamp: time.Now().UnixMilli(),
	})
}
