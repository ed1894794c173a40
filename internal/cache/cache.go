// Package cache provides a Redis-backed JSON response cache for live
// weather lookups. It is a cost-reduction layer over the provider, not a
// source of truth: entries expire on short TTLs chosen per view.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps a Redis client with typed JSON get/set.
type Cache struct {
	client *redis.Client
}

// New constructs a Cache over the given client.
func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// GetJSON retrieves and unmarshals the value at key into dst.
// Returns false, nil on a cache miss (not an error).
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(val), dst); err != nil {
		return false, fmt.Errorf("unmarshaling cached value at %s: %w", key, err)
	}
	return true, nil
}

// SetJSON marshals v and stores it at key with the given TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if v == nil {
		return nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling value for %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, b, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}
