package pipes

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/pipekit/logger"
	"github.com/kbukum/pipekit/observability"
)

// LoggingHooks logs every leaf execution: debug on start and success, error
// on failure with the elapsed time. It never handles errors.
func LoggingHooks(log *logger.Logger) Hooks {
	return &loggingHooks{log: log}
}

type loggingHooks struct {
	NopHooks
	log *logger.Logger
}

func (h *loggingHooks) OnStart(ctx context.Context, pipe, method string) {
	h.StartContext(ctx, pipe, method)
}

func (h *loggingHooks) StartContext(ctx context.Context, pipe, method string) context.Context {
	h.log.WithContext(ctx).Debug("pipe started", pipeFields(ctx, pipe, method))
	return withStart(ctx, h)
}

func (h *loggingHooks) OnSuccess(ctx context.Context, pipe, method string) {
	fields := logger.MergeWithDuration(pipeFields(ctx, pipe, method), elapsed(ctx, h))
	h.log.WithContext(ctx).Debug("pipe completed", fields)
}

func (h *loggingHooks) OnError(ctx context.Context, pipe, method string, err error) bool {
	fields := logger.MergeWithDuration(pipeFields(ctx, pipe, method), elapsed(ctx, h))
	h.log.WithContext(ctx).Error("pipe failed", logger.MergeWithError(fields, err))
	return false
}

func pipeFields(ctx context.Context, pipe, method string) map[string]interface{} {
	var contextID string
	if id, ok := ContextIDFrom(ctx); ok {
		contextID = id.String()
	}
	return logger.PipeFields(pipe, method, contextID)
}

// MetricsHooks records pipe.started, pipe.completed, pipe.failed and
// pipe.duration for every leaf execution. It never handles errors.
func MetricsHooks(metrics *observability.PipeMetrics) Hooks {
	return &metricsHooks{metrics: metrics}
}

type metricsHooks struct {
	NopHooks
	metrics *observability.PipeMetrics
}

func (h *metricsHooks) OnStart(ctx context.Context, pipe, method string) {
	h.StartContext(ctx, pipe, method)
}

func (h *metricsHooks) StartContext(ctx context.Context, pipe, _ string) context.Context {
	h.metrics.RecordStart(ctx, pipe)
	return withStart(ctx, h)
}

func (h *metricsHooks) OnSuccess(ctx context.Context, pipe, _ string) {
	h.metrics.RecordSuccess(ctx, pipe, elapsed(ctx, h))
}

func (h *metricsHooks) OnError(ctx context.Context, pipe, _ string, _ error) bool {
	h.metrics.RecordFailure(ctx, pipe, elapsed(ctx, h))
	return false
}

// TracingHooks opens a span named "{prefix}.{pipe}" for every leaf
// execution and ends it on success or failure. The pipe's work runs under
// the span, so nested executions become child spans. It never handles
// errors.
func TracingHooks(prefix string) Hooks {
	return &tracingHooks{prefix: prefix}
}

// tracingHooks keeps the NopHooks OnStart: a span needs StartContext to
// carry it to the end of the execution.
type tracingHooks struct {
	NopHooks
	prefix string
}

func (h *tracingHooks) StartContext(ctx context.Context, pipe, method string) context.Context {
	name := pipe
	if h.prefix != "" {
		name = h.prefix + "." + pipe
	}
	ctx, span := observability.StartSpan(ctx, name)
	observability.SetSpanAttribute(ctx, observability.AttrPipe, pipe)
	observability.SetSpanAttribute(ctx, observability.AttrOperation, method)
	if id, ok := ContextIDFrom(ctx); ok {
		observability.SetSpanAttribute(ctx, observability.AttrContextID, id.String())
	}
	return context.WithValue(ctx, spanKey{h}, span)
}

func (h *tracingHooks) OnSuccess(ctx context.Context, _, _ string) {
	if span, ok := ctx.Value(spanKey{h}).(trace.Span); ok {
		span.SetStatus(codes.Ok, "")
		span.End()
	}
}

func (h *tracingHooks) OnError(ctx context.Context, _, _ string, err error) bool {
	if span, ok := ctx.Value(spanKey{h}).(trace.Span); ok {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.End()
	}
	return false
}

// Per-execution state is keyed by the hooks value that attached it, so two
// hooks of the same kind in one MultiHooks never read each other's entries.
type (
	startKey struct{ owner Hooks }
	spanKey  struct{ owner Hooks }
)

func withStart(ctx context.Context, owner Hooks) context.Context {
	return context.WithValue(ctx, startKey{owner}, time.Now())
}

// elapsed returns the time since withStart was called for owner on ctx, or
// 0 if it never was.
func elapsed(ctx context.Context, owner Hooks) time.Duration {
	start, ok := ctx.Value(startKey{owner}).(time.Time)
	if !ok {
		return 0
	}
	return time.Since(start)
}
