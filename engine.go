package authcore

import (
	"context"
	"errors"
	"fmt"

	"github.com/enterprise-platform/authcore/audit"
	"github.com/enterprise-platform/authcore/cache"
	"github.com/enterprise-platform/authcore/logging"
	"github.com/enterprise-platform/authcore/password"
	"github.com/enterprise-platform/authcore/token"
)

// Engine defines a public type used by authcore APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config   Config
	store    UserStore
	cache    cache.Cache
	throttle *loginThrottle
	hasher   *password.Hasher
	issuer   *token.Issuer
	totp     *totpManager
	metrics  *Collector
	audit    *audit.Dispatcher
	log      logging.Logger
}

// Close describes the close operation and its observable behavior.
//
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// Metrics returns the engine's collector for dashboards and tests.
func (e *Engine) Metrics() *Collector {
	if e == nil {
		return nil
	}
	return e.metrics
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// VerifyToken validates signature and expiry of a bearer token and returns
// the embedded user id. It never consults the session:<id> cache mirror:
// deleting the mirror does not invalidate an already-issued token, which
// stays valid until its own expiry.
func (e *Engine) VerifyToken(tokenStr string) (string, error) {
	if e == nil || e.issuer == nil {
		return "", ErrEngineNotReady
	}
	uid, err := e.issuer.Verify(tokenStr)
	if err != nil {
		return "", ErrTokenInvalid
	}
	return uid, nil
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// trackRequest counts one engine operation toward the request total.
func (e *Engine) trackRequest() {
	e.metricInc(MetricRequestTotal)
}

// storeFailure wraps an unexpected store error: logged with operation
// context, counted as an error, surfaced as opaque ErrStoreUnavailable so no
// backend detail leaks to the caller.
func (e *Engine) storeFailure(ctx context.Context, op string, err error) error {
	e.metricInc(MetricErrorTotal)
	e.log.Error(ctx, "store operation failed", "op", op, "error", err)
	return fmt.Errorf("%w: %s", ErrStoreUnavailable, op)
}

// invalidateUser deletes every cache entry representing the user record.
// Mutations call this synchronously before acknowledging, so a caller that
// observed its own update can never read the pre-update snapshot back through
// the accessor (outside the documented concurrent-writer race window).
func (e *Engine) invalidateUser(ctx context.Context, userID string) {
	e.cache.Del(ctx, cache.UserKey(userID), cache.ProfileKey(userID))
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}
