package goRoles

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/MrEthical07/goRoles/middleware"
)

const (
	auditLoginSuccess      = "login_success"
	auditLoginFailure      = "login_failure"
	auditLogout            = "logout"
	auditRevokeFailure     = "revoke_failure"
	auditRefreshSuccess    = "refresh_success"
	auditRefreshFailure    = "refresh_failure"
	auditRegister          = "register"
	auditVerifyEmail       = "verify_email"
	auditForgotPassword    = "forgot_password"
	auditValidateReset     = "validate_reset_token"
	auditResetPassword     = "reset_password"
	auditRoleCreated       = "role_created"
	auditRoleUpdated       = "role_updated"
	auditRoleDeleted       = "role_deleted"
	auditCurrentRoleMerged = "current_role_merged"
	auditSessionRestored   = "session_restored"
	auditForcedLogout      = "forced_logout"
)

func (c *Client) emitAudit(ctx context.Context, eventType string, success bool, roleID string, err error, metadata map[string]string) {
	if c == nil || c.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		RoleID:    roleID,
		Success:   success,
		Metadata:  metadata,
	}
	if id, ok := middleware.RequestIDFromContext(ctx); ok {
		event.RequestID = id
	}
	if err != nil {
		event.Error = err.Error()
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			if event.RequestID == "" {
				event.RequestID = apiErr.RequestID
			}
			if event.Metadata == nil {
				event.Metadata = map[string]string{}
			}
			event.Metadata["status"] = strconv.Itoa(apiErr.StatusCode)
		}
	}

	c.audit.Emit(ctx, event)
}
