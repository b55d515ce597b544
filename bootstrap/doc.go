// Package bootstrap runs a one-shot pipekit task with a uniform lifecycle:
// config defaults and validation, logger setup, start hooks, the task
// itself under signal cancellation, then stop hooks within a graceful
// timeout.
//
//	app, err := bootstrap.NewApp(cfg)
//	app.OnStart(initTelemetry)
//	app.OnStop(flushTelemetry)
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    _, err := pipeline.Call(ctx, pipes.NewContext(seed))
//	    return err
//	})
package bootstrap
