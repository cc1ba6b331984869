package views

import (
	"errors"

	goRoles "github.com/MrEthical07/goRoles"
	"github.com/MrEthical07/goRoles/permission"
)

var (
	ErrNotSignedIn = errors.New("not signed in")
	ErrForbidden   = errors.New("forbidden")
)

// Session exposes the signed-in identity.
type Session interface {
	Current() (goRoles.Role, bool)
}

// Guard admits routes whose permission the signed-in role holds.
type Guard struct {
	session Session
	roles   *permission.RoleManager
}

// NewGuard returns a Guard. A nil roles selects [DefaultRoleManager].
func NewGuard(session Session, roles *permission.RoleManager) *Guard {
	if roles == nil {
		roles = DefaultRoleManager()
	}
	return &Guard{session: session, roles: roles}
}

// DefaultRoleManager grants Admin every permission and User none, so the
// role area is admin only.
func DefaultRoleManager() *permission.RoleManager {
	registry := permission.NewRegistry()
	_ = registry.RegisterAll(PermList, PermEdit)
	registry.Freeze()

	rm := permission.NewRoleManager(registry)
	_ = rm.RegisterRootRole("Admin")
	_ = rm.RegisterRole("User")
	rm.Freeze()
	return rm
}

// Check reports whether the current identity may open route. Routes
// without a permission only need a signed-in identity.
func (g *Guard) Check(route Route) error {
	current, ok := g.session.Current()
	if !ok {
		return ErrNotSignedIn
	}
	if route.Permission == "" {
		return nil
	}
	if !g.roles.Allows(current.Role, route.Permission) {
		return ErrForbidden
	}
	return nil
}
