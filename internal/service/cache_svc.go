package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/lhhieu89/reviewphims/internal/youtube"
)

// Response cache TTLs. Searches and charts churn, single lookups are stable.
const (
	SearchCacheTTL = 5 * time.Minute
	VideoCacheTTL  = 30 * time.Minute
)

// ResponseCache provides a Redis cache-aside layer for serialized API
// responses.
type ResponseCache struct {
	rdb *redis.Client
}

// NewResponseCache creates a new ResponseCache. If redisURL is empty or
// connection fails, it returns a ResponseCache with a nil client (cache
// operations become no-ops).
func NewResponseCache(redisURL string) *ResponseCache {
	if redisURL == "" {
		log.Info().Msg("redis: no URL configured, response caching disabled")
		return &ResponseCache{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis: invalid URL, response caching disabled")
		return &ResponseCache{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis: connection failed, response caching disabled")
		return &ResponseCache{}
	}

	log.Info().Msg("redis: connected, response caching enabled")
	return &ResponseCache{rdb: rdb}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *ResponseCache) Client() *redis.Client {
	return c.rdb
}

// Get retrieves a cached response body. Returns nil if not cached or cache
// is disabled.
func (c *ResponseCache) Get(ctx context.Context, key string) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

// Set serializes and stores a response under key.
func (c *ResponseCache) Set(ctx context.Context, key string, data interface{}, ttl time.Duration) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, ttl).Err()
}

// Close shuts down the Redis connection.
func (c *ResponseCache) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

// SearchKey builds the cache key for a search response. Every parameter that
// shapes the result set participates, so variants never collide.
func SearchKey(p youtube.SearchParams) string {
	return fmt.Sprintf("search:%s:%d:%s:%s:%s:%s:%s:%s:%s",
		p.Q, p.MaxResults, p.PageToken, p.Order, p.VideoCategoryID, p.VideoDuration,
		p.SafeSearch, p.RelevanceLanguage, p.VideoEmbeddable)
}

// PopularKey builds the cache key for a most-popular response.
func PopularKey(p youtube.MostPopularParams) string {
	return fmt.Sprintf("popular:%s:%d:%s:%s",
		p.RegionCode, p.MaxResults, p.PageToken, p.VideoCategoryID)
}

// VideoKey builds the cache key for a single video response.
func VideoKey(videoID string) string {
	return fmt.Sprintf("video:%s", videoID)
}

// ChannelKey builds the cache key for a single channel response.
func ChannelKey(channelID string) string {
	return fmt.Sprintf("channel:%s", channelID)
}
