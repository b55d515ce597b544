package bootstrap

import (
	"context"
	"fmt"
)

// Hook is a lifecycle callback run before or after the task.
type Hook func(ctx context.Context) error

// OnStart registers hooks that run before the task, in order. The first
// failure aborts startup.
func (a *App[C]) OnStart(hooks ...Hook) {
	a.onStart = append(a.onStart, hooks...)
}

// OnStop registers hooks that run after the task, in reverse registration
// order, so resources are released opposite to how they were acquired.
func (a *App[C]) OnStop(hooks ...Hook) {
	a.onStop = append(a.onStop, hooks...)
}

func runHooks(ctx context.Context, hooks []Hook) error {
	for i, h := range hooks {
		if err := h(ctx); err != nil {
			return fmt.Errorf("hook %d failed: %w", i, err)
		}
	}
	return nil
}
