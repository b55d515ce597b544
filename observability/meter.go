package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/pipekit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The returned provider must be shut down on exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(newResource(config.ServiceName, config.ServiceVersion, config.Environment)),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// PipeMetrics holds the instruments recorded for each leaf pipe execution.
type PipeMetrics struct {
	started   metric.Int64Counter
	completed metric.Int64Counter
	failed    metric.Int64Counter
	duration  metric.Float64Histogram
}

// NewPipeMetrics creates pipe instruments on the given meter.
func NewPipeMetrics(meter metric.Meter) (*PipeMetrics, error) {
	started, err := meter.Int64Counter("pipe.started",
		metric.WithDescription("Leaf pipe executions started"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipe.started counter: %w", err)
	}

	completed, err := meter.Int64Counter("pipe.completed",
		metric.WithDescription("Leaf pipe executions that completed without error"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipe.completed counter: %w", err)
	}

	failed, err := meter.Int64Counter("pipe.failed",
		metric.WithDescription("Leaf pipe executions whose work returned an error"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipe.failed counter: %w", err)
	}

	duration, err := meter.Float64Histogram("pipe.duration",
		metric.WithDescription("Duration of leaf pipe work in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipe.duration histogram: %w", err)
	}

	return &PipeMetrics{
		started:   started,
		completed: completed,
		failed:    failed,
		duration:  duration,
	}, nil
}

// RecordStart counts a pipe starting its work.
func (m *PipeMetrics) RecordStart(ctx context.Context, pipe string) {
	m.started.Add(ctx, 1, metric.WithAttributes(attribute.String("pipe", pipe)))
}

// RecordSuccess counts a completed pipe and records its duration.
func (m *PipeMetrics) RecordSuccess(ctx context.Context, pipe string, d time.Duration) {
	m.completed.Add(ctx, 1, metric.WithAttributes(attribute.String("pipe", pipe)))
	m.duration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("pipe", pipe),
		attribute.String("status", "ok"),
	))
}

// RecordFailure counts a failed pipe and records its duration.
func (m *PipeMetrics) RecordFailure(ctx context.Context, pipe string, d time.Duration) {
	m.failed.Add(ctx, 1, metric.WithAttributes(attribute.String("pipe", pipe)))
	m.duration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("pipe", pipe),
		attribute.String("status", "error"),
	))
}
