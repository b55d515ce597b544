package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/kbukum/pipekit/logger"
)

// App runs a finite task with the bootstrap lifecycle. C is the config type.
type App[C Config] struct {
	Name    string
	Version string
	Cfg     C
	Logger  *logger.Logger

	gracefulTimeout time.Duration
	onStart         []Hook
	onStop          []Hook
}

// NewApp applies config defaults, validates the config and sets up logging.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	base := cfg.GetServiceConfig()
	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		gracefulTimeout: 10 * time.Second,
	}

	o := resolveOptions(opts)
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	if o.logger != nil {
		app.Logger = o.logger
		logger.SetGlobalLogger(o.logger)
	} else {
		logger.Init(base.Logging)
		app.Logger = logger.GetGlobalLogger()
	}
	return app, nil
}

// RunTask runs start hooks, then task, then stop hooks. The task's context
// is canceled on SIGINT or SIGTERM. Stop hooks run even when the task
// fails, and the task's error wins over a stop error. A failed start hook
// skips the task, but the stop hooks registered so far still run.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	a.Logger.Debug("starting task", logger.Fields("name", a.Name, "version", a.Version))

	if err := runHooks(ctx, a.onStart); err != nil {
		_ = a.stop()
		return fmt.Errorf("onStart %w", err)
	}

	taskCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	taskErr := task(taskCtx)
	cancel()

	stopErr := a.stop()
	if taskErr != nil {
		return taskErr
	}
	return stopErr
}

// Shutdown runs the stop hooks for a lifecycle managed by the caller.
func (a *App[C]) Shutdown() error {
	return a.stop()
}

// stop runs stop hooks in reverse within the graceful timeout.
func (a *App[C]) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	hooks := slices.Clone(a.onStop)
	slices.Reverse(hooks)
	if err := runHooks(ctx, hooks); err != nil {
		a.Logger.Error("stop hook failed", logger.ErrorFields("shutdown", err))
		return err
	}
	return nil
}
