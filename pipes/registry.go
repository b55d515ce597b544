package pipes

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/kbukum/pipekit/errors"
)

// Registry maps names to pipes for definitions resolved at runtime.
// Names are write-once, like context keys.
type Registry struct {
	mu    sync.RWMutex
	pipes map[string]Pipe
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{pipes: make(map[string]Pipe)}
}

// Register adds a pipe under name. It fails with CONFLICT if the name is taken.
func (r *Registry) Register(name string, p Pipe) error {
	if name == "" {
		return errors.InvalidKey("pipe name must not be empty")
	}
	if p == nil {
		return errors.Validation(fmt.Sprintf("pipe %q is nil", name))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.pipes[name]; exists {
		return errors.Conflict(fmt.Sprintf("pipe %q is already registered", name)).
			WithDetail("pipe", name)
	}
	r.pipes[name] = p
	return nil
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(name string, p Pipe) {
	if err := r.Register(name, p); err != nil {
		panic(err)
	}
}

// Get retrieves a pipe by name.
func (r *Registry) Get(name string) (Pipe, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pipes[name]
	return p, ok
}

// Lookup is Get with an UNKNOWN_PIPE error for unregistered names.
func (r *Registry) Lookup(name string) (Pipe, error) {
	p, ok := r.Get(name)
	if !ok {
		return nil, errors.UnknownPipe(name)
	}
	return p, nil
}

// List returns sorted names of all registered pipes.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.pipes))
}
