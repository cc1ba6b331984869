package goRoles

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MrEthical07/goRoles/jwt"
	"github.com/MrEthical07/goRoles/session"
)

const (
	pathAuthenticate = "/authenticate"
	pathRevokeToken  = "/revoke-token"
	pathRefreshToken = "/refresh-token"
)

// Login authenticates with email and password. On success the returned
// identity becomes the session identity, the refresh timer is armed from
// its credential expiry and the session is persisted when a persister is
// configured.
//
// When the credential cannot be decoded the identity is still published
// and returned together with an error wrapping [jwt.ErrMalformedToken] or
// [jwt.ErrMissingExpiry].
func (c *Client) Login(ctx context.Context, email, password string) (Role, error) {
	if err := c.ready(); err != nil {
		return Role{}, err
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return Role{}, ErrEmptyEmail
	}

	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password}

	var role Role
	if _, err := c.do(ctx, http.MethodPost, pathAuthenticate, body, &role); err != nil {
		c.metrics.Inc(MetricLoginFailure)
		c.emitAudit(ctx, auditLoginFailure, false, "", err, map[string]string{"email": email})
		c.logger.Warn("login failed", "email", email, "error", err)
		return Role{}, err
	}

	c.metrics.Inc(MetricLoginSuccess)
	c.emitAudit(ctx, auditLoginSuccess, true, role.ID, nil, nil)
	c.logger.Info("logged in", "role_id", role.ID, "role", role.Role)

	return c.establish(ctx, role)
}

// RefreshToken exchanges the ambient refresh cookie for a new identity.
// Concurrent calls share one HTTP exchange and arm the timer once. The
// shared exchange is detached from every caller's context and bounded by
// Refresh.Timeout; each caller stops waiting when its own ctx ends.
//
// When the session ends while the exchange is in flight, the response is
// dropped and [ErrSessionEnded] is returned.
func (c *Client) RefreshToken(ctx context.Context) (Role, error) {
	if err := c.ready(); err != nil {
		return Role{}, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	leader := false
	ch := c.refreshGroup.DoChan(pathRefreshToken, func() (any, error) {
		leader = true
		return c.exchangeRefresh(ctx)
	})

	select {
	case <-ctx.Done():
		return Role{}, ctx.Err()
	case res := <-ch:
		if res.Shared && !leader {
			c.metrics.Inc(MetricRefreshCoalesced)
		}
		role, _ := res.Val.(Role)
		return role, res.Err
	}
}

func (c *Client) exchangeRefresh(parent context.Context) (Role, error) {
	epoch := c.sessionEpoch()

	ctx, cancel := c.detached(parent, c.config.Refresh.Timeout)
	defer cancel()

	var role Role
	if _, err := c.do(ctx, http.MethodPost, pathRefreshToken, struct{}{}, &role); err != nil {
		c.metrics.Inc(MetricRefreshFailure)
		c.emitAudit(ctx, auditRefreshFailure, false, "", err, nil)
		c.logger.Warn("token refresh failed", "error", err)
		return Role{}, err
	}

	c.metrics.Inc(MetricRefreshSuccess)
	c.emitAudit(ctx, auditRefreshSuccess, true, role.ID, nil, nil)
	c.logger.Debug("token refreshed", "role_id", role.ID)

	return c.establishAt(ctx, role, epoch)
}

// detached returns a context that keeps the values of ctx but not its
// cancellation, bounded by d when d is positive.
func (c *Client) detached(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(context.WithoutCancel(ctx))
	}
	return context.WithTimeout(context.WithoutCancel(ctx), d)
}

// Logout revokes the credential in the background and immediately ends the
// local session: the refresh timer is disarmed, the identity cleared, the
// persisted session deleted and the navigator sent to the login route.
// Revocation failures are logged and audited but never reported.
func (c *Client) Logout(ctx context.Context) {
	if c == nil || c.http == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	current, _ := c.store.Value()
	c.revokeAsync(ctx, current)
	c.endSession(ctx, current.ID, auditLogout)
}

// Restore loads a persisted session, reinstalls its cookies, republishes
// the identity and re-arms the refresh timer. It reports false when there
// is no persister or nothing was saved.
func (c *Client) Restore(ctx context.Context) (Role, bool, error) {
	if err := c.ready(); err != nil {
		return Role{}, false, err
	}
	if c.persister == nil {
		return Role{}, false, nil
	}

	rec, ok, err := c.persister.Load(ctx)
	if err != nil {
		c.metrics.Inc(MetricSessionPersistFailure)
		return Role{}, false, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return Role{}, false, nil
	}

	var role Role
	if err := json.Unmarshal(rec.Identity, &role); err != nil {
		return Role{}, false, fmt.Errorf("%w: %v", session.ErrCorruptRecord, err)
	}
	if cookies := rec.HTTPCookies(c.clock.Now()); len(cookies) > 0 {
		c.jar.SetCookies(c.resource, cookies)
	}

	c.metrics.Inc(MetricSessionRestored)
	c.emitAudit(ctx, auditSessionRestored, true, role.ID, nil, map[string]string{
		"saved_at": time.Unix(rec.SavedAt, 0).UTC().Format(time.RFC3339),
	})
	c.logger.Info("session restored", "role_id", role.ID)

	role, err = c.establish(ctx, role)
	if err != nil {
		return role, true, err
	}
	return role, true, nil
}

// establish publishes role, persists it and arms the refresh timer.
func (c *Client) establish(ctx context.Context, role Role) (Role, error) {
	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()
	return c.establishLocked(ctx, role)
}

// establishAt is establish for responses to exchanges started at epoch.
// It drops role with [ErrSessionEnded] when a session ended since then.
func (c *Client) establishAt(ctx context.Context, role Role, epoch uint64) (Role, error) {
	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()
	if c.epoch != epoch {
		c.logger.Info("refresh response dropped after logout", "role_id", role.ID)
		return Role{}, ErrSessionEnded
	}
	return c.establishLocked(ctx, role)
}

func (c *Client) establishLocked(ctx context.Context, role Role) (Role, error) {
	c.store.Set(role)
	c.persist(ctx, role)

	if err := c.arm(role); err != nil {
		return role, err
	}
	return role, nil
}

func (c *Client) arm(role Role) error {
	if !c.config.Refresh.Enabled {
		return nil
	}

	expiry, err := jwt.ParseExpiry(role.JWTToken)
	if err != nil {
		c.scheduler.Disarm()
		c.logger.Warn("refresh timer not armed", "role_id", role.ID, "error", err)
		return fmt.Errorf("arm refresh timer: %w", err)
	}

	ticket := c.scheduler.Arm(expiry, c.onRefreshTimer)
	c.metrics.Inc(MetricRefreshScheduled)
	c.logger.Debug("refresh timer armed",
		"role_id", role.ID,
		"expires", expiry,
		"fires_at", ticket.FireAt(),
	)
	return nil
}

func (c *Client) onRefreshTimer() {
	if !c.startTask() {
		return
	}
	defer c.tasks.Done()

	c.metrics.Inc(MetricRefreshFired)
	ctx, cancel := context.WithTimeout(context.Background(), c.config.Refresh.Timeout)
	defer cancel()

	if _, err := c.RefreshToken(ctx); err != nil {
		c.logger.Warn("scheduled refresh failed", "error", err)
	}
}

func (c *Client) persist(ctx context.Context, role Role) {
	if c.persister == nil {
		return
	}

	identity, err := json.Marshal(role)
	if err != nil {
		c.metrics.Inc(MetricSessionPersistFailure)
		c.logger.Error("encode session identity", "error", err)
		return
	}
	rec := session.Record{
		Identity: identity,
		Cookies:  session.CookiesFromHTTP(c.jar.Cookies(c.resource)),
		SavedAt:  c.clock.Now().Unix(),
	}
	if err := c.persister.Save(ctx, rec, c.config.Session.PersistTTL); err != nil {
		c.metrics.Inc(MetricSessionPersistFailure)
		c.logger.Warn("persist session", "role_id", role.ID, "error", err)
	}
}

// revokeAsync posts /revoke-token on a detached context. The request is
// built before the identity is cleared so it still carries the credential.
func (c *Client) revokeAsync(ctx context.Context, current Role) {
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.config.Session.RevokeTimeout)

	req, err := c.newRequest(rctx, http.MethodPost, pathRevokeToken, struct{}{})
	if err != nil {
		cancel()
		c.logger.Error("build revoke request", "error", err)
		return
	}
	if current.JWTToken != "" {
		req.Header.Set("Authorization", "Bearer "+current.JWTToken)
	}

	if !c.startTask() {
		cancel()
		return
	}
	go func() {
		defer c.tasks.Done()
		defer cancel()

		if _, err := c.send(req, pathRevokeToken); err != nil {
			c.metrics.Inc(MetricRevokeFailure)
			c.emitAudit(rctx, auditRevokeFailure, false, current.ID, err, nil)
			c.logger.Warn("token revocation failed", "role_id", current.ID, "error", err)
		}
	}()
}

// endSession is the local half of logout.
func (c *Client) endSession(ctx context.Context, roleID, eventType string) {
	c.sessionMu.Lock()
	c.epoch++
	c.scheduler.Disarm()
	c.store.Clear()
	if c.persister != nil {
		dctx, cancel := c.detached(ctx, c.config.Session.RevokeTimeout)
		if err := c.persister.Delete(dctx); err != nil {
			c.metrics.Inc(MetricSessionPersistFailure)
			c.logger.Warn("delete persisted session", "error", err)
		}
		cancel()
	}
	c.sessionMu.Unlock()
	c.metrics.Inc(MetricLogout)

	c.emitAudit(ctx, eventType, true, roleID, nil, nil)
	c.logger.Info("logged out", "role_id", roleID, "reason", eventType)

	if err := c.navigator.Navigate(ctx, c.config.Navigation.LoginRoute); err != nil {
		c.logger.Warn("navigate after logout", "route", c.config.Navigation.LoginRoute, "error", err)
	}
}

// onUnauthorized runs inside the transport for 401/403 responses when
// Session.LogoutOnUnauthorized is set.
func (c *Client) onUnauthorized(req *http.Request, resp *http.Response) {
	if strings.HasSuffix(req.URL.Path, pathRevokeToken) {
		return
	}
	current, ok := c.store.Value()
	if !ok {
		return
	}

	c.metrics.Inc(MetricUnauthorizedLogout)
	c.emitAudit(req.Context(), auditForcedLogout, true, current.ID, nil, map[string]string{
		"path":   req.URL.Path,
		"status": strconv.Itoa(resp.StatusCode),
	})
	c.Logout(context.WithoutCancel(req.Context()))
}
