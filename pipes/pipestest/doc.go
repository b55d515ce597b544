// Package pipestest provides helpers for testing pipes and pipelines:
// hooks that record every callback, a configurable mock pipe, and a
// shared Flow list for asserting execution order.
//
//	hooks := pipestest.NewRecordingHooks()
//	c := pipes.NewContext(map[string]any{"flow": pipestest.NewFlow()}, pipes.WithHooks(hooks))
//	_, err := pipeline.Call(ctx, c)
//	// hooks.Events() lists start/success/error in order
package pipestest
