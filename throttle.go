package authcore

import (
	"context"
	"strconv"
	"time"

	"github.com/enterprise-platform/authcore/cache"
)

// loginThrottle tracks failed login attempts per identifier in a fixed
// 15-minute window. It rides on the capability-typed cache, so every
// operation fails open when the backend is unavailable: rate limiting is
// best-effort and must never deny service on a cache outage.
type loginThrottle struct {
	cache       cache.Cache
	maxAttempts int
	window      time.Duration
}

func newLoginThrottle(c cache.Cache, cfg ThrottleConfig) *loginThrottle {
	return &loginThrottle{
		cache:       c,
		maxAttempts: cfg.MaxAttempts,
		window:      cfg.Window,
	}
}

// Locked reports whether the identifier has exhausted its attempt budget.
// It only reads the counter; a missing or unreadable counter allows.
func (t *loginThrottle) Locked(ctx context.Context, identifier string) bool {
	raw, ok := t.cache.Get(ctx, cache.LoginAttemptsKey(identifier))
	if !ok {
		return false
	}
	count, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false
	}
	return count >= int64(t.maxAttempts)
}

// RecordFailure increments the counter, starting a fresh window on first
// failure. Bursts exactly at the window boundary are an accepted limitation
// of fixed-window counting.
func (t *loginThrottle) RecordFailure(ctx context.Context, identifier string) {
	t.cache.Incr(ctx, cache.LoginAttemptsKey(identifier), t.window)
}

// Clear deletes the counter. Called only on successful login so a later
// single failure starts counting at 1 again.
func (t *loginThrottle) Clear(ctx context.Context, identifier string) {
	t.cache.Del(ctx, cache.LoginAttemptsKey(identifier))
}
