package pipes

import (
	"context"
	"slices"
	"strconv"
	"strings"
)

// Pipeline is an ordered, flat sequence of pipes. Pipelines are immutable
// once built and may be called any number of times.
type Pipeline struct {
	pipes []Pipe
}

var _ Pipe = (*Pipeline)(nil)

// Combine chains a and b. Pipeline operands are flattened, so combining is
// associative and a Pipeline never contains another Pipeline.
func Combine(a, b Pipe) *Pipeline {
	return Chain(a, b)
}

// Chain combines any number of pipes in order.
func Chain(pipes ...Pipe) *Pipeline {
	members := make([]Pipe, 0, len(pipes))
	for i, p := range pipes {
		members = appendFlat(members, p, i)
	}
	return &Pipeline{pipes: members}
}

// Then returns a new Pipeline with next appended. The receiver is unchanged.
func (p *Pipeline) Then(next Pipe) *Pipeline {
	return Chain(p, next)
}

// Pipes returns a copy of the members.
func (p *Pipeline) Pipes() []Pipe { return slices.Clone(p.pipes) }

// Len returns the number of members.
func (p *Pipeline) Len() int { return len(p.pipes) }

// Name joins the member names with "|".
func (p *Pipeline) Name() string {
	names := make([]string, len(p.pipes))
	for i, m := range p.pipes {
		names[i] = m.Name()
	}
	return strings.Join(names, "|")
}

// Call runs every member in order against c. The first error stops the
// pipeline and is returned as is; c keeps whatever was added before it.
func (p *Pipeline) Call(ctx context.Context, c *Context) (*Context, error) {
	for _, m := range p.pipes {
		if _, err := m.Call(ctx, c); err != nil {
			return c, err
		}
	}
	return c, nil
}

func appendFlat(dst []Pipe, p Pipe, pos int) []Pipe {
	switch v := p.(type) {
	case nil:
		panic(nilPipe(pos))
	case *Pipeline:
		if v == nil {
			panic(nilPipe(pos))
		}
		return append(dst, v.pipes...)
	default:
		return append(dst, p)
	}
}

func nilPipe(pos int) string {
	return "pipes: nil pipe at position " + strconv.Itoa(pos)
}
