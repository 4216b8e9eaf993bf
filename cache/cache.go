package cache

import (
	"context"
	"errors"
	"time"

	"github.com/enterprise-platform/authcore/logging"
	"github.com/redis/go-redis/v9"
)

// Cache is the capability-typed ephemeral layer. Exactly one variant is
// selected when the connection is established or lost: [Redis] when a backend
// is reachable, [Unavailable] otherwise. No method returns a backend error;
// unavailability degrades to misses and dropped writes.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool)

	// Set writes key with a TTL, best effort.
	Set(ctx context.Context, key, value string, ttl time.Duration)

	// Del removes the given keys, best effort.
	Del(ctx context.Context, keys ...string)

	// Incr increments the fixed-window counter at key, starting a fresh
	// window of length ttl when the counter is created. An existing window
	// is never extended. Returns the count after the increment, or 0 when
	// the backend is unreachable.
	Incr(ctx context.Context, key string, ttl time.Duration) int64

	// Available reports whether this is the backed variant.
	Available() bool
}

// Observer receives cache outcome notifications. The engine's metrics
// collector implements it; [NopObserver] is the default.
type Observer interface {
	CacheHit()
	CacheMiss()
	CacheError()
}

// NopObserver is an Observer that ignores all notifications.
type NopObserver struct{}

func (NopObserver) CacheHit()   {}
func (NopObserver) CacheMiss()  {}
func (NopObserver) CacheError() {}

// Redis defines a public type used by authcore APIs.
//
// Redis instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Redis struct {
	client   redis.UniversalClient
	log      logging.Logger
	observer Observer
}

// NewRedis describes the newredis operation and its observable behavior.
//
// NewRedis may return an error when input validation, dependency calls, or security checks fail.
// NewRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewRedis(client redis.UniversalClient, log logging.Logger, observer Observer) *Redis {
	if log == nil {
		log = logging.Nop{}
	}
	if observer == nil {
		observer = NopObserver{}
	}
	return &Redis{client: client, log: log, observer: observer}
}

// Get describes the get operation and its observable behavior.
//
// Get does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Redis) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.observer.CacheMiss()
			return "", false
		}
		c.degraded(ctx, "get", key, err)
		return "", false
	}
	c.observer.CacheHit()
	return val, true
}

// Set describes the set operation and its observable behavior.
//
// Set does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.degraded(ctx, "set", key, err)
	}
}

// Del describes the del operation and its observable behavior.
//
// Del does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Redis) Del(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.degraded(ctx, "del", keys[0], err)
	}
}

// Incr describes the incr operation and its observable behavior.
//
// Incr does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Redis) Incr(ctx context.Context, key string, ttl time.Duration) int64 {
	count, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		c.degraded(ctx, "incr", key, err)
		return 0
	}

	// Fixed-window semantics: set TTL only for the first hit in the window.
	if count == 1 {
		if err := c.client.Expire(ctx, key, ttl).Err(); err != nil {
			c.degraded(ctx, "expire", key, err)
		}
	}

	return count
}

// Available describes the available operation and its observable behavior.
//
// Available does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Redis) Available() bool {
	return true
}

func (c *Redis) degraded(ctx context.Context, op, key string, err error) {
	c.observer.CacheError()
	c.log.Warn(ctx, "cache degraded", "op", op, "key", key, "error", err)
}

// Unavailable is the no-op Cache variant: all reads miss, all writes and
// counter increments are dropped.
type Unavailable struct{}

func (Unavailable) Get(context.Context, string) (string, bool) { return "", false }

func (Unavailable) Set(context.Context, string, string, time.Duration) {}

func (Unavailable) Del(context.Context, ...string) {}

func (Unavailable) Incr(context.Context, string, time.Duration) int64 { return 0 }

func (Unavailable) Available() bool { return false }

// Select probes the backend with a PING and returns the matching Cache
// variant. A nil client or failed probe yields [Unavailable]; the outage is
// logged once here instead of on every call site.
func Select(ctx context.Context, client redis.UniversalClient, log logging.Logger, observer Observer) Cache {
	if log == nil {
		log = logging.Nop{}
	}
	if client == nil {
		log.Warn(ctx, "cache disabled: no client configured")
		return Unavailable{}
	}
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn(ctx, "cache disabled: backend unreachable", "error", err)
		return Unavailable{}
	}
	return NewRedis(client, log, observer)
}
