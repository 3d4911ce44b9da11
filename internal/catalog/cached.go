package catalog

import (
	"context"
	"strconv"
	"time"

	"github.com/cesargomez89/lyricbot/internal/constants"
	"github.com/cesargomez89/lyricbot/internal/domain"
	"github.com/cesargomez89/lyricbot/internal/store"
)

type Cache interface {
	GetCache(key string) ([]byte, error)
	SetCache(key string, data []byte, ttl time.Duration) error
}

// CachedProvider keeps fetched lyrics for cacheTTL. Searches are not cached
// so ratings stay fresh.
type CachedProvider struct {
	provider Provider
	cache    Cache
	cacheTTL time.Duration
}

func NewCachedProvider(provider Provider, cache Cache, cacheTTL time.Duration) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// NewStoreCachedProvider caches into the sqlite cache table.
func NewStoreCachedProvider(provider Provider, db *store.DB, cacheTTL time.Duration) *CachedProvider {
	return NewCachedProvider(provider, &storeCache{store: db}, cacheTTL)
}

func (c *CachedProvider) SearchTracksByArtist(ctx context.Context, query string) ([]domain.Track, error) {
	return c.provider.SearchTracksByArtist(ctx, query)
}

func (c *CachedProvider) GetLyrics(ctx context.Context, trackID int64) (string, error) {
	cacheKey := constants.LyricsKeyPrefix + strconv.FormatInt(trackID, 10)

	// A broken cache only costs a provider call.
	if data, err := c.cache.GetCache(cacheKey); err == nil && len(data) > 0 {
		return string(data), nil
	}

	lyrics, err := c.provider.GetLyrics(ctx, trackID)
	if err != nil {
		return "", err
	}

	_ = c.cache.SetCache(cacheKey, []byte(lyrics), c.cacheTTL)

	return lyrics, nil
}

var _ Provider = (*CachedProvider)(nil)

type storeCache struct {
	store *store.DB
}

func (s *storeCache) GetCache(key string) ([]byte, error) {
	return s.store.GetCache(key)
}

func (s *storeCache) SetCache(key string, data []byte, ttl time.Duration) error {
	return s.store.SetCache(key, data, ttl)
}

var _ Cache = (*storeCache)(nil)
