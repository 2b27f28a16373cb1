// Package posts orchestrates post fetching and the single-slot cache:
// the always-refetch path used for analysis, the cache-preferring path used
// by the landing page, and manual cache clearing.
package posts

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/doppai/persona-api/internal/apierrors"
	"github.com/doppai/persona-api/internal/domain"
	"github.com/doppai/persona-api/internal/postcache"
)

// Source tags for the cached-posts response payload.
const (
	SourceCache    = "cache"
	SourceFresh    = "fresh"
	SourceFallback = "fallback"
)

// placeholderID marks the hardcoded placeholder post so it is never served
// from cache as if it were real content.
const placeholderID = "placeholder"

// placeholderPost substitutes for fetched content when the fetch chain fails
// and the placeholder policy is enabled.
var placeholderPost = domain.Post{
	ID:        placeholderID,
	Text:      "We're teaching AI to capture how people really communicate. New demos landing soon. 🚀",
	SourceURL: "https://doppai.com",
}

// Fetcher obtains recent posts for a handle.
type Fetcher interface {
	FetchLatest(ctx context.Context, handle string, maxCount int) ([]domain.Post, error)
}

// CachedResult is the outcome of the cache-preferring path.
type CachedResult struct {
	Posts     []domain.Post
	Source    string
	Cached    bool
	Timestamp time.Time
}

// Service coordinates the fetcher and the single-slot cache.
type Service struct {
	fetcher        Fetcher
	cache          *postcache.Cache
	defaultHandle  string
	usePlaceholder bool
	log            zerolog.Logger
}

// NewService creates a posts service. usePlaceholder selects the failure
// substitution policy: placeholder post vs empty sequence.
func NewService(fetcher Fetcher, cache *postcache.Cache, defaultHandle string, usePlaceholder bool, log zerolog.Logger) *Service {
	return &Service{
		fetcher:        fetcher,
		cache:          cache,
		defaultHandle:  defaultHandle,
		usePlaceholder: usePlaceholder,
		log:            log.With().Str("service", "posts").Logger(),
	}
}

// Fetch always refetches from the upstream API. NotFound propagates so the
// caller can render an explicit "user not found"; other failures propagate
// as typed errors for the handler's substitution policy.
func (s *Service) Fetch(ctx context.Context, handle string, maxCount int) ([]domain.Post, error) {
	if s.fetcher == nil {
		return nil, apierrors.New(apierrors.KindUpstream, "no post fetcher configured")
	}
	return s.fetcher.FetchLatest(ctx, handle, maxCount)
}

// Substitute applies the configured failure substitution policy.
func (s *Service) Substitute() []domain.Post {
	if s.usePlaceholder {
		return []domain.Post{placeholderPost}
	}
	return []domain.Post{}
}

// Cached returns the cached entry when valid, otherwise fetches fresh posts
// for the default handle and caches them. A placeholder entry in the cache
// is not treated as a hit; a fresh fetch is attempted instead.
func (s *Service) Cached(ctx context.Context, forceRefresh bool) (CachedResult, error) {
	if !forceRefresh {
		entry, err := s.cache.Read()
		if err != nil {
			// A broken cache degrades to a miss, not a failed request
			s.log.Warn().Err(err).Msg("Cache read failed, treating as miss")
		}
		if entry != nil && len(entry.Posts) > 0 && entry.Posts[0].ID != placeholderID {
			return CachedResult{
				Posts:     entry.Posts,
				Source:    SourceCache,
				Cached:    true,
				Timestamp: entry.CapturedTime(),
			}, nil
		}
	} else {
		s.log.Info().Msg("Force refresh requested, skipping cache")
	}

	fresh, err := s.Fetch(ctx, s.defaultHandle, 1)
	if err != nil {
		s.log.Warn().
			Err(err).
			Str("kind", apierrors.KindOf(err).String()).
			Msg("Fresh fetch failed, applying substitution policy")
		return CachedResult{
			Posts:     s.Substitute(),
			Source:    SourceFallback,
			Cached:    false,
			Timestamp: time.Now().UTC(),
		}, nil
	}

	if err := s.cache.Write(fresh, s.defaultHandle); err != nil {
		// A failed cache write degrades freshness, not the response
		s.log.Error().Err(err).Msg("Failed to cache fresh posts")
	}

	return CachedResult{
		Posts:     fresh,
		Source:    SourceFresh,
		Cached:    false,
		Timestamp: time.Now().UTC(),
	}, nil
}

// ClearCache deletes the cached entry. Idempotent.
func (s *Service) ClearCache() error {
	return s.cache.Clear()
}
