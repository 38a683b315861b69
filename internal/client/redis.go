package client

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisCache is a Cache over go-redis. When Redis is unreachable at startup
// it degrades to a bypass that never hits and never fails.
type RedisCache struct {
	client *redis.Client
	log    zerolog.Logger

	warnedUnavailable atomic.Bool
}

var _ Cache = (*RedisCache)(nil)

// NewRedisCache connects to addr and pings it once.
func NewRedisCache(ctx context.Context, addr string, log zerolog.Logger) *RedisCache {
	client := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", addr).Msg("redis unavailable, bypassing search cache")
		_ = client.Close()
		return &RedisCache{log: log}
	}

	return &RedisCache{client: client, log: log}
}

// Available reports whether the cache is backed by a live connection.
func (r *RedisCache) Available() bool {
	return r != nil && r.client != nil
}

// GetJSON loads key into out. Missing keys report found=false without error.
func (r *RedisCache) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if !r.Available() {
		return false, nil
	}
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		r.warnUnavailableOnce(err)
		return false, err
	}
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores value under key for ttl.
func (r *RedisCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !r.Available() {
		return nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, key, b, ttl).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

// Close releases the connection.
func (r *RedisCache) Close() error {
	if !r.Available() {
		return nil
	}
	return r.client.Close()
}

func (r *RedisCache) warnUnavailableOnce(err error) {
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.log.Warn().Err(err).Msg("redis error, search cache may be stale or bypassed")
	}
}
