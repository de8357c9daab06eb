package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache is a small JSON read-cache over redis. A nil *Cache is valid and
// behaves as a permanent miss, so callers never need to branch on whether
// redis is configured.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func New(addr string, ttl time.Duration, log *zap.Logger) (*Cache, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Cache{rdb: rdb, ttl: ttl, log: log}, nil
}

// Get unmarshals the cached value for key into dest and reports a hit.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	if c == nil {
		return false
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.log.Warn("cache: bad payload, dropping key", zap.String("key", key), zap.Error(err))
		c.rdb.Del(ctx, key)
		return false
	}
	return true
}

func (c *Cache) Set(ctx context.Context, key string, v any) {
	if c == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warn("cache: set failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("cache: delete failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
