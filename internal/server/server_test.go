package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doppai/persona-api/internal/blobstore"
	"github.com/doppai/persona-api/internal/config"
	"github.com/doppai/persona-api/internal/modules/chat"
	chathandlers "github.com/doppai/persona-api/internal/modules/chat/handlers"
	"github.com/doppai/persona-api/internal/modules/posts"
	postshandlers "github.com/doppai/persona-api/internal/modules/posts/handlers"
	"github.com/doppai/persona-api/internal/modules/profile"
	profilehandlers "github.com/doppai/persona-api/internal/modules/profile/handlers"
	"github.com/doppai/persona-api/internal/postcache"
)

func setupTestServer(t *testing.T) *Server {
	logger := zerolog.New(nil).Level(zerolog.Disabled)

	cache := postcache.New(blobstore.NewMemoryStore(), logger)
	postsService := posts.NewService(nil, cache, "usedoppai", false, logger)
	profileService := profile.NewService(nil, logger)
	chatService := chat.NewService(nil, nil, nil, logger)

	return New(Config{
		Log: logger,
		Config: &config.Config{
			Port:          8080,
			DefaultHandle: "usedoppai",
			CacheBackend:  config.CacheBackendMemory,
			DevMode:       true,
		},
		PostsHandler:   postshandlers.NewHandler(postsService, logger),
		ProfileHandler: profilehandlers.NewHandler(profileService, logger),
		ChatHandler:    chathandlers.NewHandler(chatService, logger),
		ComponentStatus: ComponentStatus{
			PriceLookup:  true,
			CacheBackend: config.CacheBackendMemory,
		},
	})
}

func TestHealthEndpoint(t *testing.T) {
	srv := setupTestServer(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestSystemHealthEndpoint(t *testing.T) {
	srv := setupTestServer(t)

	req := httptest.NewRequest("GET", "/api/system/health", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status     string            `json:"status"`
		Components map[string]string `json:"components"`
		System     struct {
			Goroutines int `json:"goroutines"`
		} `json:"system"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "degraded", resp.Components["postFetcher"])
	assert.Equal(t, "configured", resp.Components["priceLookup"])
	assert.Equal(t, "memory", resp.Components["cacheBackend"])
	assert.Greater(t, resp.System.Goroutines, 0)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := setupTestServer(t)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestAPIRoutesAreRegistered(t *testing.T) {
	srv := setupTestServer(t)

	// Chat without a body is a validation failure, not a missing route
	req := httptest.NewRequest("POST", "/api/chat", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest("GET", "/api/posts/cached", nil)
	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest("GET", "/api/nope", nil)
	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORSHeaders(t *testing.T) {
	srv := setupTestServer(t)

	req := httptest.NewRequest("OPTIONS", "/api/chat", nil)
	req.Header.Set("Origin", "https://doppai.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
