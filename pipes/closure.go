package pipes

import "context"

// ClosureName identifies every closure pipe.
const ClosureName = "Closure"

// Closure wraps an inline function as an anonymous pipe. It runs between the
// hooks like any leaf but declares no contract.
func Closure(fn Func) Pipe {
	return closure{fn: fn}
}

type closure struct {
	fn Func
}

func (closure) Name() string { return ClosureName }

func (p closure) Call(ctx context.Context, c *Context) (*Context, error) {
	_, err := invoke(ctx, c, ClosureName, p.fn)
	return c, err
}
