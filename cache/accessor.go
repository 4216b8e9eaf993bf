package cache

import (
	"context"
	"encoding/json"
	"time"
)

// ReadThrough is the cache-aside read used by session, profile, and dashboard
// lookups. A hit returns the cached value without touching the durable store.
// A miss — or an unavailable cache — calls compute exactly once, best-effort
// writes the result back with ttl, and returns it. A compute error is returned
// as-is and nothing is cached.
//
// An entry that no longer decodes is treated as a miss and deleted so the next
// read repopulates it.
func ReadThrough[T any](ctx context.Context, c Cache, key string, ttl time.Duration, compute func(ctx context.Context) (T, error)) (T, error) {
	if raw, ok := c.Get(ctx, key); ok {
		var cached T
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return cached, nil
		}
		c.Del(ctx, key)
	}

	var zero T
	value, err := compute(ctx)
	if err != nil {
		return zero, err
	}

	if data, err := json.Marshal(value); err == nil {
		c.Set(ctx, key, string(data), ttl)
	}

	return value, nil
}

// WriteThrough serializes value into the cache under key. Used by login and
// registration to populate user and session entries eagerly; failures are
// swallowed by the Cache variant.
func WriteThrough[T any](ctx context.Context, c Cache, key string, value T, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.Set(ctx, key, string(data), ttl)
}
