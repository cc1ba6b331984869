package views

import (
	"context"
	"slices"
	"sync"

	goRoles "github.com/MrEthical07/goRoles"
)

const ListComponentName = "ListComponent"

// ListItem is one row of the list view.
type ListItem struct {
	Role     goRoles.Role
	Deleting bool
}

// ListComponent shows every role and deletes them.
type ListComponent struct {
	dir Directory

	mu    sync.Mutex
	items []ListItem
}

// NewListComponent returns an empty list bound to dir.
func NewListComponent(dir Directory) *ListComponent {
	return &ListComponent{dir: dir}
}

func (*ListComponent) ComponentName() string { return ListComponentName }

// Load fetches all roles and replaces the rows.
func (l *ListComponent) Load(ctx context.Context) ([]ListItem, error) {
	roles, err := l.dir.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]ListItem, len(roles))
	for i, r := range roles {
		items[i] = ListItem{Role: r}
	}

	l.mu.Lock()
	l.items = items
	l.mu.Unlock()
	return l.Items(), nil
}

// Items returns a copy of the rows.
func (l *ListComponent) Items() []ListItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.items)
}

// Delete marks the row as deleting, deletes the role and drops the row on
// success. On failure the row stays, no longer marked.
func (l *ListComponent) Delete(ctx context.Context, id string) error {
	l.setDeleting(id, true)

	if err := l.dir.Delete(ctx, id); err != nil {
		l.setDeleting(id, false)
		return err
	}

	l.mu.Lock()
	l.items = slices.DeleteFunc(l.items, func(it ListItem) bool { return it.Role.ID == id })
	l.mu.Unlock()
	return nil
}

func (l *ListComponent) setDeleting(id string, deleting bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		if l.items[i].Role.ID == id {
			l.items[i].Deleting = deleting
		}
	}
}
