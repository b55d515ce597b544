package pipestest

import (
	"context"
	"sync"

	"github.com/kbukum/pipekit/pipes"
)

// MockPipe is a configurable leaf pipe that counts its invocations.
// It adds Values to the Context, then returns Err.
type MockPipe struct {
	inner  pipes.Pipe
	values map[string]any
	err    error
	fn     pipes.Func

	mu    sync.Mutex
	calls int
}

var (
	_ pipes.Pipe             = (*MockPipe)(nil)
	_ pipes.DeclaresContract = (*MockPipe)(nil)
)

// NewMockPipe creates a mock that adds values and then returns err.
func NewMockPipe(name string, values map[string]any, err error, opts ...pipes.Option) *MockPipe {
	m := &MockPipe{values: values, err: err}
	m.inner = pipes.New(name, m.run, opts...)
	return m
}

// NewMockPipeFunc creates a mock backed by fn.
func NewMockPipeFunc(name string, fn pipes.Func, opts ...pipes.Option) *MockPipe {
	m := &MockPipe{fn: fn}
	m.inner = pipes.New(name, m.run, opts...)
	return m
}

func (m *MockPipe) Name() string { return m.inner.Name() }

func (m *MockPipe) Call(ctx context.Context, c *pipes.Context) (*pipes.Context, error) {
	return m.inner.Call(ctx, c)
}

func (m *MockPipe) Contract() pipes.Contract { return pipes.ContractOf(m.inner) }

func (m *MockPipe) run(ctx context.Context, c *pipes.Context) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.fn != nil {
		return m.fn(ctx, c)
	}
	if len(m.values) > 0 {
		if err := c.Add(m.values); err != nil {
			return err
		}
	}
	return m.err
}

// Calls returns how many times the work ran. Calls rejected by the
// required-key check are not counted.
func (m *MockPipe) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Reset clears the call counter.
func (m *MockPipe) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = 0
}
