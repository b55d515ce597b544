package pipes

import (
	"context"
	"fmt"
	"reflect"
	"runtime/debug"
	"slices"

	"github.com/kbukum/pipekit/errors"
)

// CallMethod is the operation name reported to hooks for every execution.
const CallMethod = "call"

// Pipe is a unit of work invoked with a Context.
type Pipe interface {
	Name() string
	Call(ctx context.Context, c *Context) (*Context, error)
}

// Func is the work performed by a leaf pipe or closure.
type Func func(ctx context.Context, c *Context) error

// Runner is implemented by types adapted with Of.
type Runner interface {
	Run(ctx context.Context, c *Context) error
}

// RequiresContext lets a type adapted with Of declare keys that must be
// present before it runs.
type RequiresContext interface {
	RequiredContext() []string
}

// ProvidesContext lets a type adapted with Of declare keys it adds.
type ProvidesContext interface {
	ProvidedContext() []string
}

// Option configures a leaf pipe.
type Option func(*leaf)

// Require adds keys that must be present in the Context before the pipe runs.
func Require(keys ...string) Option {
	return func(l *leaf) { l.contract.Requires = appendUnique(l.contract.Requires, keys...) }
}

// Provide adds keys the pipe promises to add to the Context.
func Provide(keys ...string) Option {
	return func(l *leaf) { l.contract.Provides = appendUnique(l.contract.Provides, keys...) }
}

// New builds a leaf pipe from a function. A nil fn builds a pipe that fails
// with MISSING_CALL_METHOD when invoked.
func New(name string, fn Func, opts ...Option) Pipe {
	l := &leaf{name: name, fn: fn}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Of adapts impl into a leaf pipe named after its type. Work comes from the
// Runner method; RequiresContext and ProvidesContext supply the contract.
// A value without a Run method still builds, and fails with
// MISSING_CALL_METHOD when invoked.
func Of(impl any, opts ...Option) Pipe {
	l := &leaf{name: typeName(impl)}
	if r, ok := impl.(Runner); ok {
		l.fn = r.Run
	}
	if rc, ok := impl.(RequiresContext); ok {
		l.contract.Requires = appendUnique(nil, rc.RequiredContext()...)
	}
	if pc, ok := impl.(ProvidesContext); ok {
		l.contract.Provides = appendUnique(nil, pc.ProvidedContext()...)
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type leaf struct {
	name     string
	fn       Func
	contract Contract
}

func (l *leaf) Name() string { return l.name }

func (l *leaf) Contract() Contract { return l.contract }

func (l *leaf) Call(ctx context.Context, c *Context) (*Context, error) {
	if key, missing := c.missing(l.contract.Requires); missing {
		return c, errors.MissingContext(l.name, key, "required")
	}

	handled, err := invoke(ctx, c, l.name, l.fn)
	if err != nil || handled {
		return c, err
	}

	if key, missing := c.missing(l.contract.Provides); missing {
		return c, errors.MissingContext(l.name, key, "provided")
	}
	return c, nil
}

// invoke runs fn between the hooks. It reports handled=true when fn failed
// and the hooks swallowed the error.
func invoke(ctx context.Context, c *Context, name string, fn Func) (handled bool, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = withContextID(ctx, c.ID())

	hooks := c.Hooks()
	ctx = startHooks(ctx, hooks, name, CallMethod)

	if fn == nil {
		err = errors.MissingCallMethod(name)
	} else {
		err = safeRun(ctx, c, name, fn)
	}

	if err != nil {
		if hooks.OnError(ctx, name, CallMethod, err) {
			return true, nil
		}
		return false, err
	}

	hooks.OnSuccess(ctx, name, CallMethod)
	return false, nil
}

func safeRun(ctx context.Context, c *Context, name string, fn Func) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Internal(&PanicError{
				Pipe:  name,
				Value: r,
				Stack: string(debug.Stack()),
			})
		}
	}()
	return fn(ctx, c)
}

func typeName(v any) string {
	if v == nil {
		return "<nil>"
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return fmt.Sprintf("%T", v)
	}
	return t.Name()
}

func appendUnique(dst []string, keys ...string) []string {
	for _, k := range keys {
		if !slices.Contains(dst, k) {
			dst = append(dst, k)
		}
	}
	return dst
}
