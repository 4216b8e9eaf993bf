package authcore

import (
	"context"
	"errors"
	"time"

	"github.com/enterprise-platform/authcore/cache"
	"github.com/google/uuid"
)

// Register creates an account, issues a token, and write-through caches the
// new record. The store enforces username/email uniqueness; a conflict
// surfaces as [ErrDuplicateIdentity], never as a generic failure.
func (e *Engine) Register(ctx context.Context, req RegisterRequest) (*LoginResult, error) {
	if e == nil || e.hasher == nil {
		return nil, ErrEngineNotReady
	}
	e.trackRequest()

	hash, err := e.hasher.Hash(req.Password)
	if err != nil {
		e.metricInc(MetricErrorTotal)
		return nil, err
	}

	now := time.Now()
	user := &User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := e.store.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateIdentity) {
			e.emitAudit(ctx, auditEventRegister, false, "", req.Username, ErrDuplicateIdentity, nil)
			return nil, ErrDuplicateIdentity
		}
		return nil, e.storeFailure(ctx, "create_user", err)
	}

	tok, err := e.issuer.Issue(user.ID)
	if err != nil {
		e.metricInc(MetricErrorTotal)
		e.log.Error(ctx, "token issue failed", "op", "register", "user_id", user.ID, "error", err)
		return nil, err
	}
	e.metricInc(MetricTokenIssued)

	cache.WriteThrough(ctx, e.cache, cache.UserKey(user.ID), user, e.config.CacheTTL.User)
	e.cache.Set(ctx, cache.SessionKey(user.ID), tok, e.config.CacheTTL.Session)

	e.metricInc(MetricRegisterSuccess)
	e.emitAudit(ctx, auditEventRegister, true, user.ID, req.Username, nil, nil)

	return &LoginResult{Token: tok, User: user}, nil
}
