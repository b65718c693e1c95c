// Package redis is a small KV cache on top of go-redis.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/config"
	"github.com/redis/go-redis/v9"
)

var ErrMiss = errors.New("cache miss")

type KV struct {
	c *redis.Client
}

func NewClient(cfg config.Redis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func NewKV(c *redis.Client) *KV { return &KV{c: c} }

func (r *KV) Get(ctx context.Context, key string) (string, error) {
	val, err := r.c.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrMiss
		}
		return "", err
	}
	return val, nil
}

func (r *KV) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.c.Set(ctx, key, value, ttl).Err()
}

func (r *KV) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.c.Del(ctx, keys...).Err()
}

func (r *KV) Ping(ctx context.Context) error {
	return r.c.Ping(ctx).Err()
}

func (r *KV) Close() error {
	return r.c.Close()
}
