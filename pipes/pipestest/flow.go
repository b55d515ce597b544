package pipestest

import (
	"context"
	"slices"
	"sync"

	"github.com/kbukum/pipekit/pipes"
)

// FlowKey is the context key Track and Visit use.
const FlowKey = "flow"

// Flow is an append-only list of names shared through a Context. It is
// stored once and mutated in place, so pipes can record their order
// without writing a key twice.
type Flow struct {
	mu    sync.Mutex
	items []string
}

// NewFlow creates an empty Flow.
func NewFlow() *Flow { return &Flow{} }

// Push appends name.
func (f *Flow) Push(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, name)
}

// Items returns a copy of the recorded names.
func (f *Flow) Items() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.items)
}

// FlowOf returns the Flow stored under FlowKey. It panics if absent.
func FlowOf(c *pipes.Context) *Flow {
	return pipes.MustRead(c, pipes.Key[*Flow]{Name: FlowKey})
}

// NewFlowContext creates a Context seeded with an empty Flow under FlowKey
// plus any extra values.
func NewFlowContext(extra map[string]any, opts ...pipes.ContextOption) *pipes.Context {
	values := map[string]any{FlowKey: NewFlow()}
	for k, v := range extra {
		values[k] = v
	}
	return pipes.NewContext(values, opts...)
}

// Visit builds a leaf pipe that pushes its own name onto the Flow.
func Visit(name string, opts ...pipes.Option) pipes.Pipe {
	return pipes.New(name, func(_ context.Context, c *pipes.Context) error {
		FlowOf(c).Push(name)
		return nil
	}, opts...)
}
