package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis caches values in a Redis instance so results survive restarts
// and can be shared between processes.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to the given address. A zero ttl stores entries
// without expiry.
func NewRedis(addr string, ttl time.Duration) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

// Get returns the cached value when present. A connection failure
// reads as a miss.
func (r *Redis) Get(key string) (string, bool) {
	val, err := r.client.Get(context.Background(), key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// Set stores a value under key.
func (r *Redis) Set(key, value string) error {
	return r.client.Set(context.Background(), key, value, r.ttl).Err()
}
