package pipes

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/pipekit/errors"
)

// Context is the write-once store threaded through a pipeline. Keys become
// readable as soon as they are added and can never be reassigned or removed.
type Context struct {
	id        uuid.UUID
	createdAt time.Time
	hooks     Hooks

	mu     sync.RWMutex
	keys   []string
	values map[string]any
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithHooks installs the hooks notified around each leaf pipe execution.
func WithHooks(h Hooks) ContextOption {
	return func(c *Context) {
		if h != nil {
			c.hooks = h
		}
	}
}

// WithID overrides the generated context ID.
func WithID(id uuid.UUID) ContextOption {
	return func(c *Context) { c.id = id }
}

// NewContext creates a Context pre-seeded with values. Seed keys are added in
// sorted order. An empty seed key is a programming error and panics.
func NewContext(values map[string]any, opts ...ContextOption) *Context {
	c := &Context{
		id:        uuid.New(),
		createdAt: time.Now().UTC(),
		hooks:     NopHooks{},
		values:    make(map[string]any, len(values)),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.Add(values); err != nil {
		panic(err)
	}
	return c
}

// ID identifies this context in logs and traces.
func (c *Context) ID() uuid.UUID { return c.id }

// CreatedAt is the creation time (UTC).
func (c *Context) CreatedAt() time.Time { return c.createdAt }

// Hooks returns the installed hooks.
func (c *Context) Hooks() Hooks { return c.hooks }

// Add inserts a batch of new keys. It fails with CONTEXT_OVERRIDE if any key
// is already present, in which case nothing from the batch is inserted.
func (c *Context) Add(values map[string]any) error {
	keys := slices.Sorted(maps.Keys(values))

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, k := range keys {
		if k == "" {
			return errors.InvalidKey("context key must not be empty")
		}
		if _, exists := c.values[k]; exists {
			return errors.Override(k)
		}
	}
	for _, k := range keys {
		c.keys = append(c.keys, k)
		c.values[k] = values[k]
	}
	return nil
}

// Set adds a single key.
func (c *Context) Set(key string, value any) error {
	return c.Add(map[string]any{key: value})
}

// Get returns the value stored under key.
func (c *Context) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key]
	return v, ok
}

// Has reports whether key has been set.
func (c *Context) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Lookup is Get with a KEY_NOT_FOUND error for unset keys.
func (c *Context) Lookup(key string) (any, error) {
	v, ok := c.Get(key)
	if !ok {
		return nil, errors.KeyNotFound(key)
	}
	return v, nil
}

// Keys returns all keys in insertion order.
func (c *Context) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.keys)
}

// Len returns the number of keys.
func (c *Context) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.keys)
}

// Snapshot returns a shallow copy of all key/value pairs.
func (c *Context) Snapshot() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.values)
}

// Success reports the outcome as judged by the installed hooks. It is true
// unless the hooks say otherwise.
func (c *Context) Success() bool {
	return c.hooks.Success(c)
}

// missing returns the first key in keys that is not set.
func (c *Context) missing(keys []string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, k := range keys {
		if _, ok := c.values[k]; !ok {
			return k, true
		}
	}
	return "", false
}

type contextIDKey struct{}

func withContextID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, contextIDKey{}, id)
}

// ContextIDFrom returns the ID of the Context a running pipe was called
// with. Hooks and pipe work receive a ctx carrying it.
func ContextIDFrom(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(contextIDKey{}).(uuid.UUID)
	return id, ok
}

// Key is a typed accessor for a Context entry.
type Key[T any] struct {
	Name string
}

// Read retrieves a typed value. It fails with KEY_NOT_FOUND if the key is
// unset or TYPE_MISMATCH if the stored value is of another type.
func Read[T any](c *Context, key Key[T]) (T, error) {
	var zero T
	raw, ok := c.Get(key.Name)
	if !ok {
		return zero, errors.KeyNotFound(key.Name)
	}
	val, ok := raw.(T)
	if !ok {
		return zero, errors.TypeMismatch(key.Name, zero, raw)
	}
	return val, nil
}

// MustRead is Read for keys guaranteed by a Require declaration.
// It panics on error.
func MustRead[T any](c *Context, key Key[T]) T {
	v, err := Read(c, key)
	if err != nil {
		panic(err)
	}
	return v
}

// Write adds a typed value under the write-once rule.
func Write[T any](c *Context, key Key[T], value T) error {
	return c.Set(key.Name, value)
}
