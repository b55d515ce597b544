package pipes

import "context"

// Hooks observes leaf pipe executions. Composite pipelines never fire hooks
// themselves; each of their leaf members does.
type Hooks interface {
	// OnStart is called after the required-key check and before the work runs.
	OnStart(ctx context.Context, pipe, method string)
	// OnSuccess is called after the work returns without error and before the
	// provided-key check.
	OnSuccess(ctx context.Context, pipe, method string)
	// OnError is called when the work fails. Returning true marks the error
	// handled: the pipe completes normally and the chain continues.
	OnError(ctx context.Context, pipe, method string, err error) bool
	// Success judges the final outcome of a context.
	Success(c *Context) bool
}

// ContextStarter is implemented by hooks that attach per-execution state to
// the context.Context. When the installed hooks implement it, StartContext
// is called in place of OnStart, and the returned ctx is passed to the work
// and to OnSuccess or OnError for the same execution.
type ContextStarter interface {
	StartContext(ctx context.Context, pipe, method string) context.Context
}

// startHooks runs the start callback of h and returns the ctx for the rest
// of the execution.
func startHooks(ctx context.Context, h Hooks, pipe, method string) context.Context {
	if s, ok := h.(ContextStarter); ok {
		return s.StartContext(ctx, pipe, method)
	}
	h.OnStart(ctx, pipe, method)
	return ctx
}

// NopHooks does nothing, handles no errors and always reports success.
type NopHooks struct{}

func (NopHooks) OnStart(context.Context, string, string)             {}
func (NopHooks) OnSuccess(context.Context, string, string)           {}
func (NopHooks) OnError(context.Context, string, string, error) bool { return false }
func (NopHooks) Success(*Context) bool                               { return true }

var _ Hooks = NopHooks{}

// HooksFuncs adapts plain functions to Hooks. Nil fields fall back to the
// NopHooks behaviour.
type HooksFuncs struct {
	Start   func(ctx context.Context, pipe, method string)
	Succeed func(ctx context.Context, pipe, method string)
	Fail    func(ctx context.Context, pipe, method string, err error) bool
	Judge   func(c *Context) bool
}

func (h HooksFuncs) OnStart(ctx context.Context, pipe, method string) {
	if h.Start != nil {
		h.Start(ctx, pipe, method)
	}
}

func (h HooksFuncs) OnSuccess(ctx context.Context, pipe, method string) {
	if h.Succeed != nil {
		h.Succeed(ctx, pipe, method)
	}
}

func (h HooksFuncs) OnError(ctx context.Context, pipe, method string, err error) bool {
	if h.Fail != nil {
		return h.Fail(ctx, pipe, method, err)
	}
	return false
}

func (h HooksFuncs) Success(c *Context) bool {
	if h.Judge != nil {
		return h.Judge(c)
	}
	return true
}

// MultiHooks fans out to every member in order. An error is handled if any
// member handles it; success requires every member to agree.
func MultiHooks(hooks ...Hooks) Hooks {
	members := make([]Hooks, 0, len(hooks))
	for _, h := range hooks {
		if h != nil {
			members = append(members, h)
		}
	}
	return multiHooks(members)
}

type multiHooks []Hooks

func (m multiHooks) OnStart(ctx context.Context, pipe, method string) {
	m.StartContext(ctx, pipe, method)
}

// StartContext threads ctx through every member in order, so each member
// sees the state attached by the ones before it.
func (m multiHooks) StartContext(ctx context.Context, pipe, method string) context.Context {
	for _, h := range m {
		ctx = startHooks(ctx, h, pipe, method)
	}
	return ctx
}

func (m multiHooks) OnSuccess(ctx context.Context, pipe, method string) {
	for _, h := range m {
		h.OnSuccess(ctx, pipe, method)
	}
}

// OnError notifies every member even after one has handled the error, so
// observers such as logging and metrics always see the failure.
func (m multiHooks) OnError(ctx context.Context, pipe, method string, err error) bool {
	handled := false
	for _, h := range m {
		if h.OnError(ctx, pipe, method, err) {
			handled = true
		}
	}
	return handled
}

func (m multiHooks) Success(c *Context) bool {
	for _, h := range m {
		if !h.Success(c) {
			return false
		}
	}
	return true
}
