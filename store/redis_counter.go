package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"loan-engine/config"
)

// RedisCounter shares rate-limit windows between server instances.
// It relies on EXPIRE NX and needs Redis 7 or newer.
type RedisCounter struct {
	client *redis.Client
}

func NewRedisCounter(cfg config.RedisConfig) *RedisCounter {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisCounter{client: rdb}
}

func (r *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("redis incr %s: %w", key, err)
	}
	return incr.Val(), nil
}

func (r *RedisCounter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCounter) Close() error {
	return r.client.Close()
}
