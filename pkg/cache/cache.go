// Package cache provides a small Redis-backed read cache. The freshness
// window is an explicit parameter on every fetch, never an ambient default.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps Redis based caching for computed report views.
type Cache struct {
	client *redis.Client
}

// New instantiates the cache helper. A nil client is allowed and turns every
// fetch into a plain recompute.
func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// FetchJSON loads a cached value or populates it using the loader. The ttl is
// the caller's staleness policy; ttl <= 0 bypasses the cache entirely.
func (c *Cache) FetchJSON(ctx context.Context, key string, ttl time.Duration, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	if loader == nil {
		return errors.New("cache: loader required")
	}
	if c == nil || c.client == nil || ttl <= 0 {
		value, err := loader(ctx)
		if err != nil {
			return err
		}
		return roundTrip(value, dest)
	}

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return json.Unmarshal(payload, dest)
	}
	if err != redis.Nil {
		return err
	}

	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// Invalidate drops the given keys after a mutation.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if c == nil || c.client == nil || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func roundTrip(value, dest interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
