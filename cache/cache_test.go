package cache

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type countingObserver struct {
	hits   atomic.Int64
	misses atomic.Int64
	errs   atomic.Int64
}

func (o *countingObserver) CacheHit()   { o.hits.Add(1) }
func (o *countingObserver) CacheMiss()  { o.misses.Add(1) }
func (o *countingObserver) CacheError() { o.errs.Add(1) }

func newTestCache(t *testing.T) (*miniredis.Miniredis, *Redis, *countingObserver) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	obs := &countingObserver{}
	return mr, NewRedis(rdb, nil, obs), obs
}

func TestRedisGetSetDel(t *testing.T) {
	_, c, obs := newTestCache(t)
	ctx := context.Background()

	if _, ok := c.Get(ctx, "user:u1"); ok {
		t.Fatal("expected miss on empty cache")
	}
	if obs.misses.Load() != 1 {
		t.Fatalf("expected 1 miss, got %d", obs.misses.Load())
	}

	c.Set(ctx, "user:u1", `{"id":"u1"}`, time.Hour)
	val, ok := c.Get(ctx, "user:u1")
	if !ok || val != `{"id":"u1"}` {
		t.Fatalf("expected hit with stored value, got %q ok=%v", val, ok)
	}
	if obs.hits.Load() != 1 {
		t.Fatalf("expected 1 hit, got %d", obs.hits.Load())
	}

	c.Del(ctx, "user:u1")
	if _, ok := c.Get(ctx, "user:u1"); ok {
		t.Fatal("expected miss after delete")
	}
}

func TestRedisSetAppliesTTL(t *testing.T) {
	mr, c, _ := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "user:profile:u1", "v", 30*time.Minute)

	mr.FastForward(29 * time.Minute)
	if _, ok := c.Get(ctx, "user:profile:u1"); !ok {
		t.Fatal("expected entry alive inside TTL")
	}

	mr.FastForward(2 * time.Minute)
	if _, ok := c.Get(ctx, "user:profile:u1"); ok {
		t.Fatal("expected entry expired after TTL")
	}
}

func TestIncrFixedWindow(t *testing.T) {
	mr, c, _ := newTestCache(t)
	ctx := context.Background()
	key := LoginAttemptsKey("alice")

	if got := c.Incr(ctx, key, 15*time.Minute); got != 1 {
		t.Fatalf("expected count 1, got %d", got)
	}

	// Later increments must not extend the original window.
	mr.FastForward(10 * time.Minute)
	if got := c.Incr(ctx, key, 15*time.Minute); got != 2 {
		t.Fatalf("expected count 2, got %d", got)
	}
	mr.FastForward(6 * time.Minute)
	if _, ok := c.Get(ctx, key); ok {
		t.Fatal("expected counter expired at the original window boundary")
	}

	// A fresh failure starts a new window at 1.
	if got := c.Incr(ctx, key, 15*time.Minute); got != 1 {
		t.Fatalf("expected fresh window to start at 1, got %d", got)
	}
}

func TestRedisDegradesToMissOnBackendError(t *testing.T) {
	mr, c, obs := newTestCache(t)
	ctx := context.Background()

	mr.Close()

	if _, ok := c.Get(ctx, "user:u1"); ok {
		t.Fatal("expected miss when backend is down")
	}
	c.Set(ctx, "user:u1", "v", time.Hour)
	c.Del(ctx, "user:u1")
	if got := c.Incr(ctx, LoginAttemptsKey("alice"), time.Minute); got != 0 {
		t.Fatalf("expected zero count when backend is down, got %d", got)
	}
	if obs.errs.Load() == 0 {
		t.Fatal("expected degradation to be observed")
	}
}

func TestUnavailableVariant(t *testing.T) {
	ctx := context.Background()
	var c Cache = Unavailable{}

	if c.Available() {
		t.Fatal("expected Available to be false")
	}
	c.Set(ctx, "k", "v", time.Hour)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("expected unconditional miss")
	}
	if got := c.Incr(ctx, "k", time.Minute); got != 0 {
		t.Fatalf("expected zero count, got %d", got)
	}
	c.Del(ctx, "k")
}

func TestSelectPicksVariant(t *testing.T) {
	ctx := context.Background()

	if c := Select(ctx, nil, nil, nil); c.Available() {
		t.Fatal("expected Unavailable for nil client")
	}

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	if c := Select(ctx, rdb, nil, nil); !c.Available() {
		t.Fatal("expected Redis variant for reachable backend")
	}

	dead := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer dead.Close()
	if c := Select(ctx, dead, nil, nil); c.Available() {
		t.Fatal("expected Unavailable for unreachable backend")
	}
}
