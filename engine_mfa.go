package authcore

import (
	"context"
	"time"
)

// EnrollMFA starts (or restarts) TOTP enrollment for a user: a fresh random
// shared secret is stored with MFAEnabled=false and returned together with
// the otpauth:// provisioning URI for external QR rendering.
//
// Re-invoking while enrollment is pending overwrites the previous secret —
// exactly one candidate secret exists at a time. There is no transition out
// of the enabled state; a disable flow is deliberately out of scope.
func (e *Engine) EnrollMFA(ctx context.Context, userID string) (*MFAProvision, error) {
	if e == nil || e.totp == nil {
		return nil, ErrEngineNotReady
	}
	e.trackRequest()

	// The MFA secret is read from the store, never from a cached snapshot.
	user, err := e.store.GetByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, e.storeFailure(ctx, "get_by_id", err)
	}

	secret, err := e.totp.GenerateSecret()
	if err != nil {
		e.metricInc(MetricErrorTotal)
		return nil, err
	}

	user.MFASecret = secret
	user.MFAEnabled = false
	user.UpdatedAt = time.Now()
	if err := e.store.Update(ctx, user); err != nil {
		return nil, e.storeFailure(ctx, "store_mfa_secret", err)
	}

	e.invalidateUser(ctx, userID)

	e.metricInc(MetricMFAEnrolled)
	e.emitAudit(ctx, auditEventMFAEnroll, true, userID, "", nil, nil)

	return &MFAProvision{
		Secret: secret,
		URI:    e.totp.ProvisionURI(secret, user.Email),
	}, nil
}

// ConfirmMFA validates a time-based code against the pending secret with the
// ±2-step tolerance window. On match the enrollment is confirmed
// (MFAEnabled=true) and the cached user snapshot invalidated; on mismatch
// nothing changes and [ErrMFACodeInvalid] is returned.
func (e *Engine) ConfirmMFA(ctx context.Context, userID, code string) error {
	if e == nil || e.totp == nil {
		return ErrEngineNotReady
	}
	e.trackRequest()

	user, err := e.store.GetByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return ErrUserNotFound
		}
		return e.storeFailure(ctx, "get_by_id", err)
	}
	if user.MFASecret == "" {
		return ErrMFANotEnrolled
	}

	ok, err := e.totp.VerifyCode(user.MFASecret, code, time.Now())
	if err != nil {
		e.metricInc(MetricErrorTotal)
		e.log.Error(ctx, "mfa verification failed", "op", "confirm_mfa", "user_id", userID, "error", err)
		return ErrMFACodeInvalid
	}
	if !ok {
		e.emitAudit(ctx, auditEventMFAConfirm, false, userID, "", ErrMFACodeInvalid, nil)
		return ErrMFACodeInvalid
	}

	user.MFAEnabled = true
	user.UpdatedAt = time.Now()
	if err := e.store.Update(ctx, user); err != nil {
		return e.storeFailure(ctx, "enable_mfa", err)
	}

	e.invalidateUser(ctx, userID)

	e.metricInc(MetricMFAConfirmed)
	e.emitAudit(ctx, auditEventMFAConfirm, true, userID, "", nil, nil)
	return nil
}
