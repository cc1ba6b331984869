package goRoles

import (
	"context"
	"net/http"
	"strings"
)

// Register creates a pending account. The session is not touched.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (Message, error) {
	return c.accountCall(ctx, auditRegister, "/register", req)
}

// VerifyEmail confirms an account with the token mailed on registration.
func (c *Client) VerifyEmail(ctx context.Context, token string) (Message, error) {
	if strings.TrimSpace(token) == "" {
		return Message{}, ErrEmptyToken
	}
	return c.accountCall(ctx, auditVerifyEmail, "/verify-email", struct {
		Token string `json:"token"`
	}{token})
}

// ForgotPassword asks the API to mail a reset token to email.
func (c *Client) ForgotPassword(ctx context.Context, email string) (Message, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return Message{}, ErrEmptyEmail
	}
	return c.accountCall(ctx, auditForgotPassword, "/forgot-password", struct {
		Email string `json:"email"`
	}{email})
}

// ValidateResetToken checks a reset token without consuming it.
func (c *Client) ValidateResetToken(ctx context.Context, token string) (Message, error) {
	if strings.TrimSpace(token) == "" {
		return Message{}, ErrEmptyToken
	}
	return c.accountCall(ctx, auditValidateReset, "/validate-reset-token", struct {
		Token string `json:"token"`
	}{token})
}

// ResetPassword sets a new password using a reset token. Matching of
// password and confirmPassword is left to the API.
func (c *Client) ResetPassword(ctx context.Context, token, password, confirmPassword string) (Message, error) {
	if strings.TrimSpace(token) == "" {
		return Message{}, ErrEmptyToken
	}
	return c.accountCall(ctx, auditResetPassword, "/reset-password", struct {
		Token           string `json:"token"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}{token, password, confirmPassword})
}

func (c *Client) accountCall(ctx context.Context, eventType, path string, body any) (Message, error) {
	if err := c.ready(); err != nil {
		return Message{}, err
	}
	c.metrics.Inc(MetricAccountRequest)

	data, err := c.do(ctx, http.MethodPost, path, body, nil)
	if err != nil {
		c.metrics.Inc(MetricAccountFailure)
		c.emitAudit(ctx, eventType, false, "", err, nil)
		return Message{}, err
	}
	c.emitAudit(ctx, eventType, true, "", nil, nil)

	var msg Message
	if len(data) > 0 {
		// Bodies other than {"message"} are passed through as empty messages.
		_ = decodeJSON(data, &msg)
	}
	return msg, nil
}
