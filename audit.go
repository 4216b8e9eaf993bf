package authcore

import (
	"context"
	"time"

	"github.com/enterprise-platform/authcore/audit"
)

const (
	auditEventLoginSuccess   = "login_success"
	auditEventLoginFailure   = "login_failure"
	auditEventLoginLockedOut = "login_locked_out"
	auditEventLoginMFAPrompt = "login_mfa_prompt"
	auditEventRegister       = "register"
	auditEventMFAEnroll      = "mfa_enroll"
	auditEventMFAConfirm     = "mfa_confirm"
	auditEventProfileUpdate  = "profile_update"
	auditEventAdminUpdate    = "admin_user_update"
	auditEventAdminDelete    = "admin_user_delete"
)

// emitAudit forwards an event to the async dispatcher. metaFn is evaluated
// lazily so disabled audit costs nothing on the login hot path. Metadata must
// never include secrets, hashes, or MFA codes.
func (e *Engine) emitAudit(ctx context.Context, eventType string, success bool, userID, identifier string, opErr error, metaFn func() map[string]string) {
	if e == nil || e.audit == nil {
		return
	}

	event := audit.Event{
		Timestamp:  time.Now(),
		EventType:  eventType,
		UserID:     userID,
		Identifier: identifier,
		Success:    success,
	}
	if opErr != nil {
		event.Error = opErr.Error()
	}
	if metaFn != nil {
		event.Metadata = metaFn()
	}

	e.audit.Emit(ctx, event)
}
