package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	cachekey "github.com/always-cache/go2web/pkg/cache-key"
	serializer "github.com/always-cache/go2web/pkg/response-serializer"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var ErrCacheIO = errors.New("cache: i/o failure")

// CacheEntry is a stored response body. Entries are never modified; a new
// entry replaces the old one under the same key.
type CacheEntry struct {
	Content     string
	ContentType string
	ETag        string
	Expires     time.Time
}

func (e CacheEntry) IsExpired() bool {
	return !time.Now().Before(e.Expires)
}

// TimeToLive is the remaining freshness, zero once expired.
func (e CacheEntry) TimeToLive() time.Duration {
	if ttl := time.Until(e.Expires); ttl > 0 {
		return ttl
	}
	return 0
}

type Config struct {
	// Durable is the persistent tier. Entries are kept in memory only if nil.
	Durable CacheProvider
	Logger  *zerolog.Logger
}

// ResponseCache is a memory tier in front of an optional durable tier.
// Durable I/O errors are logged and treated as misses.
type ResponseCache struct {
	memory  MemCache
	durable CacheProvider
	log     zerolog.Logger
}

func New(config Config) *ResponseCache {
	logger := log.Logger
	if config.Logger != nil {
		logger = *config.Logger
	}
	return &ResponseCache{
		memory:  NewMemCache(),
		durable: config.Durable,
		log:     logger.With().Str("component", "cache").Logger(),
	}
}

func (c *ResponseCache) Durable() bool {
	return c.durable != nil
}

// Get returns the entry stored for url, fresh or not. Fresh entries found in
// the durable tier are copied into memory.
func (c *ResponseCache) Get(url string) (CacheEntry, bool) {
	key := cachekey.Key(url)
	logger := c.log.With().Str("key", key).Logger()

	if entry, ok := c.load(c.memory, key); ok {
		logger.Trace().Bool("expired", entry.IsExpired()).Msg("Memory hit")
		return entry, true
	}
	if c.durable == nil {
		return CacheEntry{}, false
	}
	entry, ok := c.load(c.durable, key)
	if !ok {
		logger.Trace().Msg("Miss")
		return CacheEntry{}, false
	}
	logger.Trace().Bool("expired", entry.IsExpired()).Msg("Durable hit")
	if !entry.IsExpired() {
		c.memory.Put(key, entry.Expires, toBytes(entry))
	}
	return entry, true
}

// Put stores a new entry expiring maxAge from now in both tiers.
func (c *ResponseCache) Put(url, content, contentType, etag string, maxAge time.Duration) CacheEntry {
	key := cachekey.Key(url)
	entry := CacheEntry{
		Content:     content,
		ContentType: contentType,
		ETag:        etag,
		Expires:     time.Now().Add(maxAge),
	}
	bytes := toBytes(entry)
	c.memory.Put(key, entry.Expires, bytes)
	if c.durable != nil {
		if err := c.durable.Put(key, entry.Expires, bytes); err != nil {
			c.ioError(err, key, "Could not write to durable cache")
		}
	}
	c.log.Debug().Str("key", key).Str("url", url).Dur("maxAge", maxAge).Msg("Stored")
	return entry
}

// Sweep removes expired entries from both tiers and returns how many were removed.
func (c *ResponseCache) Sweep() int {
	now := time.Now()
	removed := c.sweep(c.memory, now)
	if c.durable != nil {
		removed += c.sweep(c.durable, now)
	}
	return removed
}

// RunSweeper sweeps every interval until ctx is done.
func (c *ResponseCache) RunSweeper(ctx context.Context, interval time.Duration) {
	c.log.Info().Msgf("Starting cache sweep loop with interval %s", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := c.Sweep(); removed > 0 {
				c.log.Debug().Int("removed", removed).Msg("Swept expired entries")
			}
		}
	}
}

func (c *ResponseCache) sweep(provider CacheProvider, now time.Time) int {
	removed := 0
	err := provider.Expired(now, func(key string) {
		if err := provider.Purge(key); err != nil {
			c.ioError(err, key, "Could not purge entry")
			return
		}
		removed++
	})
	if err != nil {
		c.ioError(err, "", "Could not list expired entries")
	}
	return removed
}

func (c *ResponseCache) load(provider CacheProvider, key string) (CacheEntry, bool) {
	bytes, ok, err := provider.Get(key)
	if err != nil {
		c.ioError(err, key, "Could not read from cache")
		return CacheEntry{}, false
	}
	if !ok {
		return CacheEntry{}, false
	}
	entry, err := fromBytes(bytes)
	if err != nil {
		c.ioError(err, key, "Could not decode cache entry")
		return CacheEntry{}, false
	}
	return entry, true
}

func (c *ResponseCache) ioError(err error, key, msg string) {
	c.log.Warn().Err(fmt.Errorf("%w: %w", ErrCacheIO, err)).Str("key", key).Msg(msg)
}

func toBytes(entry CacheEntry) []byte {
	return serializer.StoredResponseToBytes(serializer.StoredResponse{
		Content:     entry.Content,
		ContentType: entry.ContentType,
		ETag:        entry.ETag,
		Expires:     entry.Expires,
	})
}

func fromBytes(bytes []byte) (CacheEntry, error) {
	sRes, err := serializer.BytesToStoredResponse(bytes)
	if err != nil {
		return CacheEntry{}, err
	}
	return CacheEntry{
		Content:     sRes.Content,
		ContentType: sRes.ContentType,
		ETag:        sRes.ETag,
		Expires:     sRes.Expires,
	}, nil
}
