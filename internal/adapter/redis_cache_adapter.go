package adapter

import (
	"context"
	"errors"
	"time"

	"quizhub/internal/domain"

	"github.com/redis/go-redis/v9"
)

// unlockScript deletes the lease only when the stored token matches.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisCacheAdapter implements domain.Cache and domain.Locker using a Redis client.
type RedisCacheAdapter struct {
	client *redis.Client
}

// NewRedisCacheAdapter creates a new instance of RedisCacheAdapter.
// It expects a connected *redis.Client.
func NewRedisCacheAdapter(client *redis.Client) *RedisCacheAdapter {
	return &RedisCacheAdapter{client: client}
}

// Get retrieves an item from the Redis cache.
// It translates redis.Nil to domain.ErrCacheMiss.
func (r *RedisCacheAdapter) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrCacheMiss
		}
		return "", err
	}
	return val, nil
}

// Set adds an item to the Redis cache.
func (r *RedisCacheAdapter) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	return r.client.Set(ctx, key, value, expiration).Err()
}

// Delete removes items from the Redis cache.
func (r *RedisCacheAdapter) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

// Ping checks the health of the Redis server.
func (r *RedisCacheAdapter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// TryLock implements domain.Locker with SET NX PX.
func (r *RedisCacheAdapter) TryLock(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	return r.client.SetNX(ctx, key, token, ttl).Result()
}

// Unlock implements domain.Locker.
func (r *RedisCacheAdapter) Unlock(ctx context.Context, key, token string) error {
	err := unlockScript.Run(ctx, r.client, []string{key}, token).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
