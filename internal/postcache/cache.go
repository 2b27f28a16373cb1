// Package postcache provides the single-slot, time-boxed cache for the most
// recently fetched post set. At most one entry exists at a time; an entry is
// valid for 24 hours and is evaluated lazily on read. Concurrent access is
// not synchronized (last writer wins, acceptable at this traffic level).
package postcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/doppai/persona-api/internal/blobstore"
	"github.com/doppai/persona-api/internal/domain"
	"github.com/doppai/persona-api/internal/metrics"
)

// TTL is the validity window for a cached entry.
const TTL = 24 * time.Hour

// Entry is the persisted cache content. CapturedAt is epoch milliseconds to
// match the on-disk layout the UI already consumes.
type Entry struct {
	Posts         []domain.Post `json:"posts"`
	CapturedAt    int64         `json:"capturedAt"`
	SubjectHandle string        `json:"subjectHandle"`
}

// CapturedTime returns CapturedAt as a time.Time.
func (e *Entry) CapturedTime() time.Time {
	return time.UnixMilli(e.CapturedAt)
}

// Cache is the single-slot post cache over an injected blob store.
type Cache struct {
	store blobstore.Store
	log   zerolog.Logger
	now   func() time.Time
}

// New creates a cache backed by the given store.
func New(store blobstore.Store, log zerolog.Logger) *Cache {
	return &Cache{
		store: store,
		log:   log.With().Str("component", "postcache").Logger(),
		now:   time.Now,
	}
}

// SetNowFunc overrides the clock. Tests use this to simulate expiry.
func (c *Cache) SetNowFunc(now func() time.Time) {
	c.now = now
}

// Read returns the cached entry, or nil if absent, expired, or corrupt.
// Expired and corrupt entries are deleted before returning; a parse error
// never propagates to the caller.
func (c *Cache) Read() (*Entry, error) {
	data, err := c.store.Get()
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			metrics.CacheReads.WithLabelValues("miss").Inc()
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cache blob: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		metrics.CacheReads.WithLabelValues("corrupt").Inc()
		c.log.Warn().Err(err).Msg("Corrupt cache entry, deleting")
		if clearErr := c.store.Clear(); clearErr != nil {
			c.log.Error().Err(clearErr).Msg("Failed to delete corrupt cache entry")
		}
		return nil, nil
	}

	age := c.now().Sub(entry.CapturedTime())
	if age >= TTL {
		metrics.CacheReads.WithLabelValues("expired").Inc()
		c.log.Info().
			Dur("age", age).
			Str("handle", entry.SubjectHandle).
			Msg("Cache entry expired, deleting")
		if clearErr := c.store.Clear(); clearErr != nil {
			c.log.Error().Err(clearErr).Msg("Failed to delete expired cache entry")
		}
		return nil, nil
	}

	metrics.CacheReads.WithLabelValues("hit").Inc()
	c.log.Debug().
		Str("handle", entry.SubjectHandle).
		Int("posts", len(entry.Posts)).
		Dur("remaining", TTL-age).
		Msg("Cache hit")
	return &entry, nil
}

// Write overwrites any existing entry with the given posts.
func (c *Cache) Write(posts []domain.Post, subjectHandle string) error {
	entry := Entry{
		Posts:         posts,
		CapturedAt:    c.now().UnixMilli(),
		SubjectHandle: subjectHandle,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	if err := c.store.Set(data); err != nil {
		return fmt.Errorf("failed to write cache blob: %w", err)
	}

	c.log.Info().
		Str("handle", subjectHandle).
		Int("posts", len(posts)).
		Msg("Cached posts for 24 hours")
	return nil
}

// Clear deletes the entry if present. Clearing an empty cache is not an error.
func (c *Cache) Clear() error {
	if err := c.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	c.log.Info().Msg("Post cache cleared")
	return nil
}
