package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// cachePrefix namespaces report cache keys away from idempotency keys in the
// same Redis database.
const cachePrefix = "cache:"

// Cache implements usecase.Cache using Redis. Report aggregates are the
// only payloads stored here, keyed by their filter string.
type Cache struct {
	client *redis.Client
}

// NewCache creates a new Cache.
func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Get retrieves a value by key. A missing key surfaces as redis.Nil.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	return c.client.Get(ctx, cachePrefix+key).Result()
}

// Set stores a value with a TTL.
func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, cachePrefix+key, value, ttl).Err()
}

// Delete removes a key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, cachePrefix+key).Err()
}
