package authcore

import (
	"context"
	"errors"
	"time"

	"github.com/enterprise-platform/authcore/cache"
)

// GetUser returns the full (public-safe) user snapshot, cache-aside under
// user:<id> with a 1-hour lifetime.
func (e *Engine) GetUser(ctx context.Context, userID string) (*User, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	e.trackRequest()

	user, err := cache.ReadThrough(ctx, e.cache, cache.UserKey(userID), e.config.CacheTTL.User, func(ctx context.Context) (*User, error) {
		return e.store.GetByID(ctx, userID)
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, e.storeFailure(ctx, "get_user", err)
	}
	return user, nil
}

// GetProfile returns the profile snapshot, cache-aside under
// user:profile:<id> with a 30-minute lifetime.
func (e *Engine) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	e.trackRequest()

	profile, err := cache.ReadThrough(ctx, e.cache, cache.ProfileKey(userID), e.config.CacheTTL.Profile, func(ctx context.Context) (*Profile, error) {
		user, err := e.store.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		p := user.Profile()
		return &p, nil
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, e.storeFailure(ctx, "get_profile", err)
	}
	return profile, nil
}

// UpdateProfile applies the non-nil fields and invalidates both cached
// snapshots before acknowledging, so the caller can never read its own stale
// profile back. Concurrent writers race at the store with last-writer-wins
// semantics.
func (e *Engine) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*User, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	e.trackRequest()

	user, err := e.store.GetByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, e.storeFailure(ctx, "get_by_id", err)
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	user.UpdatedAt = time.Now()

	if err := e.store.Update(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateIdentity) {
			return nil, ErrDuplicateIdentity
		}
		return nil, e.storeFailure(ctx, "update_profile", err)
	}

	// Invalidate-on-write: synchronous, before the mutation is acknowledged.
	e.invalidateUser(ctx, userID)

	e.emitAudit(ctx, auditEventProfileUpdate, true, userID, "", nil, nil)
	return user, nil
}
