// Package pipes composes units of work into flat, sequential pipelines that
// run against a shared, write-once Context.
//
// A Pipe is a leaf built with New or Of, an anonymous Closure, or a Pipeline
// produced by chaining. Chaining flattens, so the following are the same
// three-member pipeline:
//
//	p := pipes.Combine(pipes.Combine(a, b), c)
//	q := pipes.Combine(a, pipes.Combine(b, c))
//	r := pipes.Chain(a, b, c)
//
// Leaf pipes may declare the context keys they need before running and the
// keys they promise to add:
//
//	tokenize := pipes.New("Tokenize", tokenizeFn,
//	    pipes.Require("normalized"),
//	    pipes.Provide("tokens"),
//	)
//
// Running a pipeline threads one Context through every member in order:
//
//	c := pipes.NewContext(map[string]any{"input": text},
//	    pipes.WithHooks(pipes.LoggingHooks(log)))
//	if _, err := p.Call(ctx, c); err != nil {
//	    // c still holds everything added before the failure
//	}
//
// Hooks are the only extension seam. A Hooks value observes every leaf
// execution and decides, through OnError, whether a failure is swallowed or
// aborts the rest of the chain.
package pipes
