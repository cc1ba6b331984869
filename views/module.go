package views

import (
	"context"
	"errors"
	"fmt"

	goRoles "github.com/MrEthical07/goRoles"
)

// Directory is the client surface the components use. [*goRoles.Client]
// satisfies it.
type Directory interface {
	Current() (goRoles.Role, bool)
	GetAll(ctx context.Context) ([]goRoles.Role, error)
	GetByID(ctx context.Context, id string) (goRoles.Role, error)
	Create(ctx context.Context, params goRoles.RoleParams) (goRoles.Role, error)
	Update(ctx context.Context, id string, params goRoles.RoleParams) (goRoles.Role, error)
	Delete(ctx context.Context, id string) error
}

// Component is a declared view.
type Component interface {
	ComponentName() string
}

// Import is a capability a module depends on.
type Import interface {
	ImportName() string
}

// Capability is a named dependency with no behaviour of its own.
type Capability string

func (c Capability) ImportName() string { return string(c) }

const (
	// Common is the shared view toolkit.
	Common Capability = "common"
	// Forms is the form-model capability used by [AddEditComponent].
	Forms Capability = "forms"
)

// Module groups the declarations of one feature area.
type Module struct {
	Name         string
	Imports      []Import
	Declarations []Component

	dir   Directory
	guard *Guard
}

var ErrUnknownComponent = errors.New("unknown component")

// NewRoleModule wires the role feature against dir. routes is supplied by
// the host application; guard may be nil to skip permission checks.
func NewRoleModule(dir Directory, routes *RouteTable, guard *Guard) *Module {
	imports := []Import{Common, Forms}
	if routes != nil {
		imports = append(imports, routes)
	}
	return &Module{
		Name:    "roles",
		Imports: imports,
		Declarations: []Component{
			(*ListComponent)(nil),
			(*AddEditComponent)(nil),
		},
		dir:   dir,
		guard: guard,
	}
}

// DependsOn reports whether the module imports name.
func (m *Module) DependsOn(name string) bool {
	for _, imp := range m.Imports {
		if imp != nil && imp.ImportName() == name {
			return true
		}
	}
	return false
}

// Declares reports whether the module declares component name.
func (m *Module) Declares(name string) bool {
	for _, c := range m.Declarations {
		if c.ComponentName() == name {
			return true
		}
	}
	return false
}

func (m *Module) routes() *RouteTable {
	for _, imp := range m.Imports {
		if rt, ok := imp.(*RouteTable); ok {
			return rt
		}
	}
	return nil
}

// Open resolves path against the imported route table, checks the route's
// permission and returns the component serving it.
func (m *Module) Open(path string) (Component, error) {
	rt := m.routes()
	if rt == nil {
		return nil, ErrNoRoute
	}
	route, vars, err := rt.Resolve(path)
	if err != nil {
		return nil, err
	}
	if m.guard != nil {
		if err := m.guard.Check(route); err != nil {
			return nil, err
		}
	}

	switch route.Component {
	case ListComponentName:
		return NewListComponent(m.dir), nil
	case AddEditComponentName:
		return NewAddEditComponent(m.dir, vars["id"]), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownComponent, route.Component)
	}
}
