package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doppai/persona-api/internal/modules/chat"
)

type fixedRand struct{ n int }

func (f fixedRand) Intn(n int) int { return f.n % n }

func setupRouter() *chi.Mux {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	service := chat.NewService(nil, nil, fixedRand{}, logger)
	handler := NewHandler(service, logger)

	router := chi.NewRouter()
	router.Route("/api", handler.RegisterRoutes)
	return router
}

func postChat(t *testing.T, router http.Handler, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/chat", bytes.NewReader(data))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleChat(t *testing.T) {
	router := setupRouter()

	w := postChat(t, router, map[string]interface{}{
		"message": "Tell me about space",
		"profile": "Loves Mars and rocket engineering",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ID        string `json:"id"`
		Response  string `json:"response"`
		Source    string `json:"source"`
		Timestamp int64  `json:"timestamp"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.NotEmpty(t, resp.ID)
	assert.NotEmpty(t, resp.Response)
	assert.Equal(t, chat.SourceFallback, resp.Source)
	assert.NotZero(t, resp.Timestamp)
}

func TestHandleChatMissingMessage(t *testing.T) {
	router := setupRouter()

	w := postChat(t, router, map[string]interface{}{"profile": "some profile"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleChatMissingProfile(t *testing.T) {
	router := setupRouter()

	w := postChat(t, router, map[string]interface{}{"message": "hello"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleChatInvalidBody(t *testing.T) {
	router := setupRouter()

	req := httptest.NewRequest("POST", "/api/chat", bytes.NewReader([]byte("{{")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
