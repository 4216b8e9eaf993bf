package authcore

import (
	"context"
	"errors"
	"time"

	"github.com/enterprise-platform/authcore/cache"
)

// ListUsers is the admin listing with search, role/status filters, and
// pagination. Listings are not cached: admin traffic is rare and the result
// shape varies per query.
func (e *Engine) ListUsers(ctx context.Context, q ListUsersQuery) (*ListUsersResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	e.trackRequest()

	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}

	users, total, err := e.store.List(ctx, q)
	if err != nil {
		return nil, e.storeFailure(ctx, "list_users", err)
	}

	profiles := make([]Profile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].Profile())
	}

	totalPages := (total + q.Limit - 1) / q.Limit
	return &ListUsersResult{
		Users:      profiles,
		Total:      total,
		Page:       q.Page,
		TotalPages: totalPages,
	}, nil
}

// UpdateUser applies an admin mutation (name, email, role, active flag) and
// invalidates the user's cached snapshots before acknowledging.
func (e *Engine) UpdateUser(ctx context.Context, userID string, update AdminUpdate) (*User, error) {
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
	if update.Role != nil {
		user.Role = *update.Role
	}
	if update.IsActive != nil {
		user.IsActive = *update.IsActive
	}
	user.UpdatedAt = time.Now()

	if err := e.store.Update(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateIdentity) {
			return nil, ErrDuplicateIdentity
		}
		return nil, e.storeFailure(ctx, "admin_update_user", err)
	}

	e.invalidateUser(ctx, userID)

	e.emitAudit(ctx, auditEventAdminUpdate, true, userID, "", nil, nil)
	return user, nil
}

// DeleteUser hard-deletes a record — the only destroy path for user records —
// and drops every cache entry representing it, session mirror included.
func (e *Engine) DeleteUser(ctx context.Context, userID string) error {
	if e == nil {
		return ErrEngineNotReady
	}
	e.trackRequest()

	if err := e.store.Delete(ctx, userID); err != nil {
		if isNotFound(err) {
			return ErrUserNotFound
		}
		return e.storeFailure(ctx, "delete_user", err)
	}

	e.invalidateUser(ctx, userID)
	e.cache.Del(ctx, cache.SessionKey(userID))

	e.emitAudit(ctx, auditEventAdminDelete, true, userID, "", nil, nil)
	return nil
}
