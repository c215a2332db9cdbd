// feed.go provides a Redis-backed cache for the public post listings.
// The serialized JSON body of a feed response is stored so hot listing
// endpoints skip the post/like/comment assembly queries. Any write to a
// post, like, or comment invalidates both feeds.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// feedKeyPrefix is the Redis key prefix for cached feeds.
	feedKeyPrefix = "feed:"

	// FeedAll is the cache key for the listing of every post.
	FeedAll = "all"

	// FeedPublished is the cache key for the published-only listing.
	FeedPublished = "published"

	// DefaultFeedTTL is how long a feed stays cached. Invalidation on
	// write keeps readers current; the TTL is a backstop.
	DefaultFeedTTL = 5 * time.Minute
)

// FeedCache manages serialized feed responses in Redis. A nil *FeedCache
// is valid and disables caching, so callers never need to branch.
type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFeedCache creates a feed cache backed by the given Redis client.
// Returns nil if the client is nil.
func NewFeedCache(client *redis.Client, ttl time.Duration) *FeedCache {
	if client == nil {
		return nil
	}
	if ttl == 0 {
		ttl = DefaultFeedTTL
	}
	return &FeedCache{client: client, ttl: ttl}
}

// Get retrieves a cached feed body. Returns (nil, false) on miss.
func (fc *FeedCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if fc == nil {
		return nil, false
	}
	val, err := fc.client.Get(ctx, feedKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("feed cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("feed cache hit", "key", key)
	return val, true
}

// Set stores a serialized feed body with the configured TTL.
func (fc *FeedCache) Set(ctx context.Context, key string, body []byte) {
	if fc == nil {
		return
	}
	if err := fc.client.Set(ctx, feedKeyPrefix+key, body, fc.ttl).Err(); err != nil {
		slog.Warn("feed cache set error", "key", key, "error", err)
	}
}

// Invalidate drops both feeds. Called after any post, like, or comment
// write; dropping both is cheaper than tracking which listing a write
// affects.
func (fc *FeedCache) Invalidate(ctx context.Context) {
	if fc == nil {
		return
	}
	if err := fc.client.Del(ctx, feedKeyPrefix+FeedAll, feedKeyPrefix+FeedPublished).Err(); err != nil {
		slog.Warn("feed cache invalidate error", "error", err)
	}
	slog.Debug("feed cache invalidated")
}
