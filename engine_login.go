package authcore

import (
	"context"
	"time"

	"github.com/enterprise-platform/authcore/cache"
)

// Login runs the end-to-end login protocol for an identifier (username or
// email), a password, and an optional MFA code.
//
// Outcomes are mutually exclusive and exhaustive:
//   - (*LoginResult with Token+User, nil) on full success
//   - (*LoginResult with MFARequired, nil) when the password checked out but a
//     second factor is needed and mfaCode was empty
//   - (nil, ErrLockedOut) when the identifier exhausted its attempt budget
//   - (nil, ErrInvalidCredentials) for unknown identifier, wrong password,
//     inactive account, or wrong MFA code — deliberately indistinguishable
//   - (nil, ErrStoreUnavailable wrap) when the durable store failed
func (e *Engine) Login(ctx context.Context, identifier, secret, mfaCode string) (*LoginResult, error) {
	if e == nil || e.hasher == nil {
		return nil, ErrEngineNotReady
	}
	e.trackRequest()

	// Lockout check precedes any store access so a locked identifier costs
	// nothing against the database.
	if e.throttle.Locked(ctx, identifier) {
		e.metricInc(MetricLoginLockedOut)
		e.emitAudit(ctx, auditEventLoginLockedOut, false, "", identifier, ErrLockedOut, nil)
		return nil, ErrLockedOut
	}

	user, err := e.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if isNotFound(err) {
			// Identical outward shape to a wrong password so account
			// existence cannot be probed.
			e.throttle.RecordFailure(ctx, identifier)
			e.metricInc(MetricLoginFailure)
			e.emitAudit(ctx, auditEventLoginFailure, false, "", identifier, ErrInvalidCredentials, func() map[string]string {
				return map[string]string{"reason": "user_not_found"}
			})
			return nil, ErrInvalidCredentials
		}
		return nil, e.storeFailure(ctx, "get_by_identifier", err)
	}

	if !e.hasher.Verify(secret, user.PasswordHash) {
		e.throttle.RecordFailure(ctx, identifier)
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, user.ID, identifier, ErrInvalidCredentials, func() map[string]string {
			return map[string]string{"reason": "password_mismatch"}
		})
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, user.ID, identifier, ErrInvalidCredentials, func() map[string]string {
			return map[string]string{"reason": "account_inactive"}
		})
		return nil, ErrInvalidCredentials
	}

	if user.MFAEnabled {
		if mfaCode == "" {
			// The password was correct, so this prompt is not a failed
			// attempt and does not count toward the lockout budget.
			e.metricInc(MetricLoginMFARequired)
			e.emitAudit(ctx, auditEventLoginMFAPrompt, true, user.ID, identifier, nil, nil)
			return &LoginResult{MFARequired: true}, nil
		}

		ok, err := e.totp.VerifyCode(user.MFASecret, mfaCode, time.Now())
		if err != nil {
			e.metricInc(MetricErrorTotal)
			e.log.Error(ctx, "mfa verification failed", "op", "login", "user_id", user.ID, "error", err)
			return nil, ErrInvalidCredentials
		}
		if !ok {
			// A wrong one-time code does not increment the throttle
			// counter; see DESIGN.md for the flagged trade-off.
			e.metricInc(MetricLoginFailure)
			e.emitAudit(ctx, auditEventLoginFailure, false, user.ID, identifier, ErrInvalidCredentials, func() map[string]string {
				return map[string]string{"reason": "mfa_mismatch"}
			})
			return nil, ErrInvalidCredentials
		}
	}

	e.throttle.Clear(ctx, identifier)

	now := time.Now()
	user.LastLogin = &now
	if err := e.store.Update(ctx, user); err != nil {
		return nil, e.storeFailure(ctx, "update_last_login", err)
	}

	tok, err := e.issuer.Issue(user.ID)
	if err != nil {
		e.metricInc(MetricErrorTotal)
		e.log.Error(ctx, "token issue failed", "op", "login", "user_id", user.ID, "error", err)
		return nil, err
	}
	e.metricInc(MetricTokenIssued)

	// Write-through: user snapshot for subsequent reads and the session
	// mirror for administrative lookup. Both best effort.
	cache.WriteThrough(ctx, e.cache, cache.UserKey(user.ID), user, e.config.CacheTTL.User)
	e.cache.Set(ctx, cache.SessionKey(user.ID), tok, e.config.CacheTTL.Session)

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, user.ID, identifier, nil, nil)

	return &LoginResult{Token: tok, User: user}, nil
}
