package permission

import (
	"errors"
	"sync"
)

var (
	ErrRegistryFrozen      = errors.New("registry frozen")
	ErrEmptyPermission     = errors.New("permission name cannot be empty")
	ErrDuplicatePermission = errors.New("permission already registered")
	ErrPermissionLimit     = errors.New("permission limit exceeded")
)

// Registry maps permission names to bit positions in a [Mask64]. The top
// bit is reserved for the root permission.
type Registry struct {
	mu        sync.RWMutex
	nameToBit map[string]int
	bitToName map[int]string
	frozen    bool
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		nameToBit: make(map[string]int),
		bitToName: make(map[int]string),
	}
}

// Register assigns the next free bit to name and returns it.
func (r *Registry) Register(name string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return -1, ErrRegistryFrozen
	}
	if name == "" {
		return -1, ErrEmptyPermission
	}
	if _, exists := r.nameToBit[name]; exists {
		return -1, ErrDuplicatePermission
	}

	next := len(r.nameToBit)
	if next >= rootBit {
		return -1, ErrPermissionLimit
	}

	r.nameToBit[name] = next
	r.bitToName[next] = name
	return next, nil
}

// RegisterAll registers names in order and stops at the first error.
func (r *Registry) RegisterAll(names ...string) error {
	for _, name := range names {
		if _, err := r.Register(name); err != nil {
			return errors.Join(errors.New("register "+name), err)
		}
	}
	return nil
}

// Bit returns the bit of name.
func (r *Registry) Bit(name string) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bit, ok := r.nameToBit[name]
	return bit, ok
}

// Name returns the permission stored at bit.
func (r *Registry) Name(bit int) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.bitToName[bit]
	return name, ok
}

// Freeze prevents further registrations.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Count returns the number of registered permissions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nameToBit)
}
