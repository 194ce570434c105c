package tenant

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisCache backs the resolution cache with Redis so multiple instances
// share lookups and invalidations.
type redisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache creates a Redis-backed resolution cache. The prefix
// namespaces keys so the cache can share a database with other data.
func NewRedisCache(client *redis.Client, prefix string) Cache {
	if prefix == "" {
		prefix = "tenant:resolution:"
	}
	return &redisCache{client: client, prefix: prefix}
}

func (c *redisCache) Get(ctx context.Context, key string) (*Resolution, bool) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		// Treat any Redis failure as a miss; resolution falls through to the
		// store, which stays the source of truth.
		return nil, false
	}
	var res Resolution
	if err := json.Unmarshal(data, &res); err != nil || res.Tenant == nil {
		return nil, false
	}
	return &res, true
}

func (c *redisCache) Set(ctx context.Context, key string, res *Resolution, ttl time.Duration) {
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, c.prefix+key, data, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, key string) {
	_ = c.client.Del(ctx, c.prefix+key).Err()
}

func (c *redisCache) Close() error { return nil }
