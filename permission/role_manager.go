package permission

import (
	"errors"
	"sync"
)

var (
	ErrRoleManagerFrozen = errors.New("role manager frozen")
	ErrEmptyRole         = errors.New("role name empty")
	ErrDuplicateRole     = errors.New("role already registered")
)

// RoleManager maps role names, as carried by the identity record, onto
// permission masks.
//
// RoleManager instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RoleManager struct {
	registry *Registry

	mu     sync.RWMutex
	roles  map[string]Mask64
	frozen bool
}

// NewRoleManager returns a RoleManager resolving permissions through registry.
func NewRoleManager(registry *Registry) *RoleManager {
	return &RoleManager{
		registry: registry,
		roles:    make(map[string]Mask64),
	}
}

/*
====================================
REGISTER
====================================
*/

// RegisterRole grants roleName the named permissions. Every permission must
// already be registered.
func (rm *RoleManager) RegisterRole(roleName string, permissionNames ...string) error {
	var mask Mask64
	for _, perm := range permissionNames {
		bit, ok := rm.registry.Bit(perm)
		if !ok {
			return errors.New("permission not registered: " + perm)
		}
		mask = mask.Set(bit)
	}
	return rm.store(roleName, mask)
}

// RegisterRootRole grants roleName every permission, including ones
// registered later.
func (rm *RoleManager) RegisterRootRole(roleName string) error {
	return rm.store(roleName, Mask64(0).Set(rootBit))
}

func (rm *RoleManager) store(roleName string, mask Mask64) error {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.frozen {
		return ErrRoleManagerFrozen
	}
	if roleName == "" {
		return ErrEmptyRole
	}
	if _, exists := rm.roles[roleName]; exists {
		return ErrDuplicateRole
	}
	rm.roles[roleName] = mask
	return nil
}

/*
====================================
LOOKUP
====================================
*/

// Mask returns the mask of roleName.
func (rm *RoleManager) Mask(roleName string) (Mask64, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	mask, ok := rm.roles[roleName]
	return mask, ok
}

// Allows reports whether roleName holds perm. Unknown roles and unknown
// permissions are denied, except for root roles.
func (rm *RoleManager) Allows(roleName, perm string) bool {
	mask, ok := rm.Mask(roleName)
	if !ok {
		return false
	}
	if mask.Root() {
		return true
	}
	bit, ok := rm.registry.Bit(perm)
	if !ok {
		return false
	}
	return mask.Has(bit)
}

// Freeze prevents further registrations.
func (rm *RoleManager) Freeze() {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.frozen = true
}

// Count returns the number of registered roles.
func (rm *RoleManager) Count() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.roles)
}
