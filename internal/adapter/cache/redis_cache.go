package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quangdo/shopcart-api/internal/usecase"
)

// RedisStatusCache keeps the latest order status per order number for the
// public tracking path and the payment feed. All callers treat it as
// best-effort.
type RedisStatusCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStatusCache(rdb *redis.Client, ttl time.Duration) *RedisStatusCache {
	return &RedisStatusCache{rdb: rdb, ttl: ttl}
}

func (r *RedisStatusCache) SetStatus(ctx context.Context, orderNumber string, status string) error {
	return r.rdb.Set(ctx, "order:status:"+orderNumber, status, r.ttl).Err()
}

func (r *RedisStatusCache) GetStatus(ctx context.Context, orderNumber string) (string, bool, error) {
	val, err := r.rdb.Get(ctx, "order:status:"+orderNumber).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

var _ usecase.StatusCache = (*RedisStatusCache)(nil)
