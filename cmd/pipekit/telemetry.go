package main

import (
	"context"

	"github.com/kbukum/pipekit/bootstrap"
	"github.com/kbukum/pipekit/logger"
	"github.com/kbukum/pipekit/observability"
	"github.com/kbukum/pipekit/pipes"
)

const instrumentationName = "github.com/kbukum/pipekit/cmd/pipekit"

// registerTelemetry installs OTLP providers on start and flushes them on
// stop. Disabled exporters leave the global no-op providers in place.
func registerTelemetry(app *bootstrap.App[*RunnerConfig]) {
	cfg := app.Cfg

	if cfg.Tracing.Enabled {
		tc := observability.TracerConfig{
			ServiceName:    cfg.Name,
			ServiceVersion: cfg.Version,
			Environment:    cfg.Environment,
			Endpoint:       cfg.Tracing.Endpoint,
			Insecure:       cfg.Tracing.Insecure,
			SampleRate:     cfg.Tracing.SampleRate,
		}
		app.OnStart(func(ctx context.Context) error {
			tp, err := observability.InitTracer(ctx, &tc)
			if err != nil {
				return err
			}
			app.OnStop(tp.Shutdown)
			return nil
		})
	}

	if cfg.Metrics.Enabled {
		mc := observability.MeterConfig{
			ServiceName:    cfg.Name,
			ServiceVersion: cfg.Version,
			Environment:    cfg.Environment,
			Endpoint:       cfg.Metrics.Endpoint,
			Insecure:       cfg.Metrics.Insecure,
			Interval:       cfg.Metrics.Interval,
		}
		app.OnStart(func(ctx context.Context) error {
			mp, err := observability.InitMeter(ctx, &mc)
			if err != nil {
				return err
			}
			app.OnStop(mp.Shutdown)
			return nil
		})
	}
}

// buildHooks combines the hooks the config enables. Logging is always on.
func buildHooks(app *bootstrap.App[*RunnerConfig]) (pipes.Hooks, error) {
	hooks := []pipes.Hooks{pipes.LoggingHooks(logger.Get("pipes"))}
	if app.Cfg.Tracing.Enabled {
		hooks = append(hooks, pipes.TracingHooks(serviceName))
	}
	if app.Cfg.Metrics.Enabled {
		metrics, err := observability.NewPipeMetrics(observability.Meter(instrumentationName))
		if err != nil {
			return nil, err
		}
		hooks = append(hooks, pipes.MetricsHooks(metrics))
	}
	app.Logger.Debug("pipe hooks configured", logger.Fields(
		"tracing", app.Cfg.Tracing.Enabled,
		"metrics", app.Cfg.Metrics.Enabled,
	))
	return pipes.MultiHooks(hooks...), nil
}
