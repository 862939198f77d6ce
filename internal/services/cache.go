package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheKeyPrefix is the Redis key prefix for cached data
const CacheKeyPrefix = "cache:"

// CacheService stores JSON values in Redis. A nil *CacheService is a valid
// always-miss cache.
type CacheService struct {
	rdb *redis.Client
}

func NewCacheService(rdb *redis.Client) *CacheService {
	return &CacheService{rdb: rdb}
}

// Get decodes the cached value into dest. A miss returns (false, nil).
func (c *CacheService) Get(ctx context.Context, key string, dest any) (bool, error) {
	if c == nil {
		return false, nil
	}
	val, err := c.rdb.Get(ctx, CacheKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *CacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, CacheKeyPrefix+key, data, ttl).Err()
}

func (c *CacheService) Delete(ctx context.Context, key string) error {
	if c == nil {
		return nil
	}
	return c.rdb.Del(ctx, CacheKeyPrefix+key).Err()
}

// Generation returns the counter stored at key, or 0 when it is unset.
func (c *CacheService) Generation(ctx context.Context, key string) (int64, error) {
	if c == nil {
		return 0, nil
	}
	n, err := c.rdb.Get(ctx, CacheKeyPrefix+key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// Bump increments the counter at key and keeps it for ttl.
func (c *CacheService) Bump(ctx context.Context, key string, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	pipe := c.rdb.TxPipeline()
	pipe.Incr(ctx, CacheKeyPrefix+key)
	pipe.Expire(ctx, CacheKeyPrefix+key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// CacheKey generates a cache key for a specific resource
func CacheKey(resource string, identifier ...string) string {
	key := resource
	for _, id := range identifier {
		key = fmt.Sprintf("%s:%s", key, id)
	}
	return key
}
