// Package cache provides a small string cache for payoff projection
// results, either in-process or backed by Redis.
package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/wealthtracker-dev/wealthtracker/internal/config"
)

// Cache stores computed results by key. Implementations are safe for
// concurrent use.
type Cache interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// FromConfig picks the backend: Redis when an address is configured,
// otherwise in-process.
func FromConfig(c config.CacheConfig) Cache {
	ttl := time.Duration(c.TTLSeconds) * time.Second
	if c.RedisAddr != "" {
		return NewRedis(c.RedisAddr, ttl)
	}
	return NewMemory(ttl)
}

// Key digests an arbitrary input into a stable cache key. Two equal
// inputs always digest to the same key.
func Key(prefix string, input any) string {
	data, err := json.Marshal(input)
	if err != nil {
		data = []byte(fmt.Sprintf("%+v", input))
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", prefix, sum[:16])
}
