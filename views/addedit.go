package views

import (
	"context"

	goRoles "github.com/MrEthical07/goRoles"
)

const AddEditComponentName = "AddEditComponent"

// Form is the add/edit form model. Values are passed to the API as typed.
type Form struct {
	Title           string
	FirstName       string
	LastName        string
	Email           string
	Role            string
	Password        string
	ConfirmPassword string
}

func formFromRole(r goRoles.Role) Form {
	return Form{
		Title:     r.Title,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Role:      r.Role,
	}
}

func (f Form) params() goRoles.RoleParams {
	return goRoles.RoleParams{
		Title:           f.Title,
		FirstName:       f.FirstName,
		LastName:        f.LastName,
		Email:           f.Email,
		Role:            f.Role,
		Password:        f.Password,
		ConfirmPassword: f.ConfirmPassword,
	}
}

// AddEditComponent creates a role, or edits one when built with an id.
type AddEditComponent struct {
	dir Directory
	id  string
}

// NewAddEditComponent returns the form in add mode when id is empty and in
// edit mode otherwise.
func NewAddEditComponent(dir Directory, id string) *AddEditComponent {
	return &AddEditComponent{dir: dir, id: id}
}

func (*AddEditComponent) ComponentName() string { return AddEditComponentName }

// IsAddMode reports whether Submit creates a role.
func (a *AddEditComponent) IsAddMode() bool { return a.id == "" }

// ID returns the edited role id, or "" in add mode.
func (a *AddEditComponent) ID() string { return a.id }

// Load returns the initial form: empty in add mode, pre-filled from the
// API in edit mode. Passwords are never pre-filled.
func (a *AddEditComponent) Load(ctx context.Context) (Form, error) {
	if a.IsAddMode() {
		return Form{}, nil
	}
	role, err := a.dir.GetByID(ctx, a.id)
	if err != nil {
		return Form{}, err
	}
	return formFromRole(role), nil
}

// Submit creates or updates the role from form.
func (a *AddEditComponent) Submit(ctx context.Context, form Form) (goRoles.Role, error) {
	if a.IsAddMode() {
		return a.dir.Create(ctx, form.params())
	}
	return a.dir.Update(ctx, a.id, form.params())
}
