package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doppai/persona-api/internal/apierrors"
	"github.com/doppai/persona-api/internal/blobstore"
	"github.com/doppai/persona-api/internal/domain"
	"github.com/doppai/persona-api/internal/modules/posts"
	"github.com/doppai/persona-api/internal/postcache"
)

type fakeFetcher struct {
	posts []domain.Post
	err   error
}

func (f *fakeFetcher) FetchLatest(ctx context.Context, handle string, maxCount int) ([]domain.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.posts, nil
}

func setupRouter(fetcher posts.Fetcher, usePlaceholder bool) *chi.Mux {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	cache := postcache.New(blobstore.NewMemoryStore(), logger)
	service := posts.NewService(fetcher, cache, "usedoppai", usePlaceholder, logger)
	handler := NewHandler(service, logger)

	router := chi.NewRouter()
	router.Route("/api", handler.RegisterRoutes)
	return router
}

func postJSON(t *testing.T, router http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleFetch(t *testing.T) {
	fetcher := &fakeFetcher{posts: []domain.Post{{ID: "1", Text: "hello"}}}
	router := setupRouter(fetcher, false)

	w := postJSON(t, router, "/api/posts/fetch", map[string]interface{}{
		"handle":   "@ElonMusk",
		"maxCount": 5,
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "fresh", resp["source"])
	assert.Len(t, resp["posts"], 1)
}

func TestHandleFetchMissingHandle(t *testing.T) {
	router := setupRouter(&fakeFetcher{}, false)

	w := postJSON(t, router, "/api/posts/fetch", map[string]interface{}{"maxCount": 5})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleFetchInvalidBody(t *testing.T) {
	router := setupRouter(&fakeFetcher{}, false)

	req := httptest.NewRequest("POST", "/api/posts/fetch", bytes.NewReader([]byte("{broken")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleFetchUnknownHandleIs404(t *testing.T) {
	fetcher := &fakeFetcher{err: apierrors.New(apierrors.KindNotFound, "user not found")}
	router := setupRouter(fetcher, false)

	w := postJSON(t, router, "/api/posts/fetch", map[string]interface{}{"handle": "ghost"})

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "user not found", resp["error"])
}

func TestHandleFetchUpstreamFailureSubstitutes(t *testing.T) {
	fetcher := &fakeFetcher{err: apierrors.New(apierrors.KindRateLimited, "throttled")}
	router := setupRouter(fetcher, false)

	w := postJSON(t, router, "/api/posts/fetch", map[string]interface{}{"handle": "elonmusk"})

	// Rate limiting degrades to the substitution policy, not an error status
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Posts  []domain.Post `json:"posts"`
		Source string        `json:"source"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "fallback", resp.Source)
	assert.Empty(t, resp.Posts)
}

func TestHandleCached(t *testing.T) {
	fetcher := &fakeFetcher{posts: []domain.Post{{ID: "1", Text: "hi"}}}
	router := setupRouter(fetcher, false)

	req := httptest.NewRequest("GET", "/api/posts/cached", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success   bool          `json:"success"`
		Posts     []domain.Post `json:"posts"`
		Source    string        `json:"source"`
		Cached    bool          `json:"cached"`
		Timestamp int64         `json:"timestamp"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "fresh", resp.Source)
	assert.False(t, resp.Cached)
	assert.NotZero(t, resp.Timestamp)

	// Second request is served from the cache
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/posts/cached", nil))
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "cache", resp.Source)
	assert.True(t, resp.Cached)
}

func TestHandleClearCache(t *testing.T) {
	router := setupRouter(&fakeFetcher{posts: []domain.Post{{ID: "1"}}}, false)

	w := postJSON(t, router, "/api/cache/clear", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, true, resp["success"])
}
