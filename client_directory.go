package goRoles

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// GetAll lists every role visible to the caller.
func (c *Client) GetAll(ctx context.Context) ([]Role, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	c.metrics.Inc(MetricDirectoryRequest)

	var roles []Role
	if _, err := c.do(ctx, http.MethodGet, "", nil, &roles); err != nil {
		c.metrics.Inc(MetricDirectoryFailure)
		return nil, err
	}
	return roles, nil
}

// GetByID fetches one role.
func (c *Client) GetByID(ctx context.Context, id string) (Role, error) {
	if err := c.ready(); err != nil {
		return Role{}, err
	}
	id = strings.TrimSpace(id)
	path, err := rolePath(id)
	if err != nil {
		return Role{}, err
	}
	c.metrics.Inc(MetricDirectoryRequest)

	var role Role
	if _, err := c.do(ctx, http.MethodGet, path, nil, &role); err != nil {
		c.metrics.Inc(MetricDirectoryFailure)
		return Role{}, err
	}
	return role, nil
}

// Create adds a role. The API response is decoded as a Role; an empty
// body yields a zero Role.
func (c *Client) Create(ctx context.Context, params RoleParams) (Role, error) {
	if err := c.ready(); err != nil {
		return Role{}, err
	}
	c.metrics.Inc(MetricDirectoryRequest)

	data, err := c.do(ctx, http.MethodPost, "", params, nil)
	if err != nil {
		c.metrics.Inc(MetricDirectoryFailure)
		c.emitAudit(ctx, auditRoleCreated, false, "", err, nil)
		return Role{}, err
	}

	var created Role
	if len(data) > 0 {
		if err := decodeJSON(data, &created); err != nil {
			return Role{}, fmt.Errorf("POST %s: %w", c.config.API.ResourcePath, err)
		}
	}
	c.emitAudit(ctx, auditRoleCreated, true, created.ID, nil, nil)
	return created, nil
}

// Update changes role id. When the response describes the signed-in
// identity, its fields are merged over the current identity, the result is
// republished and persisted, and the merged identity is returned. Other
// roles leave the session untouched.
//
// Update returns [ErrNoCurrentRole] without contacting the API when no
// identity is signed in.
func (c *Client) Update(ctx context.Context, id string, params RoleParams) (Role, error) {
	if err := c.ready(); err != nil {
		return Role{}, err
	}
	id = strings.TrimSpace(id)
	path, err := rolePath(id)
	if err != nil {
		return Role{}, err
	}
	if _, ok := c.store.Value(); !ok {
		return Role{}, ErrNoCurrentRole
	}
	c.metrics.Inc(MetricDirectoryRequest)
	epoch := c.sessionEpoch()

	data, err := c.do(ctx, http.MethodPut, path, params, nil)
	if err != nil {
		c.metrics.Inc(MetricDirectoryFailure)
		c.emitAudit(ctx, auditRoleUpdated, false, id, err, nil)
		return Role{}, err
	}

	var updated Role
	if err := decodeJSON(data, &updated); err != nil {
		return Role{}, fmt.Errorf("PUT %s: %w", path, err)
	}
	c.emitAudit(ctx, auditRoleUpdated, true, updated.ID, nil, nil)

	c.sessionMu.Lock()
	current, ok := c.store.Value()
	if !ok || updated.ID != current.ID {
		c.sessionMu.Unlock()
		return updated, nil
	}
	if c.epoch != epoch {
		c.sessionMu.Unlock()
		return updated, ErrSessionEnded
	}

	merged, err := mergeRole(current, data)
	if err != nil {
		c.sessionMu.Unlock()
		return updated, fmt.Errorf("merge current role: %w", err)
	}
	c.store.Set(merged)
	c.persist(ctx, merged)
	c.sessionMu.Unlock()
	c.metrics.Inc(MetricCurrentRoleMerged)
	c.emitAudit(ctx, auditCurrentRoleMerged, true, merged.ID, nil, nil)
	c.logger.Info("current role updated", "role_id", merged.ID)

	return merged, nil
}

// Delete removes role id. Whatever the outcome, if id is the signed-in
// identity once the call completes, the logout sequence runs.
//
// Delete returns [ErrNoCurrentRole] without contacting the API when no
// identity is signed in.
func (c *Client) Delete(ctx context.Context, id string) (err error) {
	if err := c.ready(); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	path, err := rolePath(id)
	if err != nil {
		return err
	}
	if _, ok := c.store.Value(); !ok {
		return ErrNoCurrentRole
	}

	defer func() {
		if current, ok := c.store.Value(); ok && current.ID == id {
			c.metrics.Inc(MetricCurrentRoleDeleted)
			c.logger.Info("current role deleted", "role_id", id, "request_error", err)
			c.Logout(ctx)
		}
	}()

	c.metrics.Inc(MetricDirectoryRequest)
	if _, err = c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		c.metrics.Inc(MetricDirectoryFailure)
		c.emitAudit(ctx, auditRoleDeleted, false, id, err, nil)
		return err
	}
	c.emitAudit(ctx, auditRoleDeleted, true, id, nil, nil)
	return nil
}

func rolePath(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrEmptyID
	}
	return "/" + url.PathEscape(id), nil
}
