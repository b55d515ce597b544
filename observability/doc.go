// Package observability provides OpenTelemetry tracing and metrics setup
// for pipekit, plus the instrument set recorded per pipe execution.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, &cfg)
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, &cfg)
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewPipeMetrics(observability.Meter("pipekit"))
//	metrics.RecordSuccess(ctx, "Tokenize", duration)
//
// Both are wired into a pipeline through pipes.TracingHooks and
// pipes.MetricsHooks.
package observability
