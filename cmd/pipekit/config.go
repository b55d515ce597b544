package main

import (
	"time"

	"github.com/kbukum/pipekit/config"
	"github.com/kbukum/pipekit/validation"
)

// RunnerConfig is the configuration of the pipekit CLI.
type RunnerConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Pipelines PipelinesConfig `yaml:"pipelines" mapstructure:"pipelines"`
	Tracing   TracingConfig   `yaml:"tracing" mapstructure:"tracing"`
	Metrics   MetricsConfig   `yaml:"metrics" mapstructure:"metrics"`
}

// PipelinesConfig locates pipeline definitions.
type PipelinesConfig struct {
	// Dirs are searched in order for {name}.yaml definitions.
	Dirs []string `yaml:"dirs" mapstructure:"dirs" validate:"min=1,dive,required"`
	// TopN bounds the output of the top pipe.
	TopN int `yaml:"top_n" mapstructure:"top_n" validate:"gte=0"`
}

// TracingConfig enables span export over OTLP HTTP.
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint" validate:"omitempty,hostname_port"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// MetricsConfig enables metric export over OTLP HTTP.
type MetricsConfig struct {
	Enabled  bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint string        `yaml:"endpoint" mapstructure:"endpoint" validate:"omitempty,hostname_port"`
	Insecure bool          `yaml:"insecure" mapstructure:"insecure"`
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

const defaultEndpoint = "localhost:4318"

// loaderDefaults are viper defaults for keys a config file may omit.
var loaderDefaults = map[string]any{
	"name":                serviceName,
	"pipelines.dirs":      []string{"pipelines"},
	"tracing.sample_rate": 1.0,
	"tracing.insecure":    true,
	"metrics.insecure":    true,
	"metrics.interval":    "15s",
}

func (c *RunnerConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	if len(c.Pipelines.Dirs) == 0 {
		c.Pipelines.Dirs = []string{"pipelines"}
	}
	if c.Tracing.Endpoint == "" {
		c.Tracing.Endpoint = defaultEndpoint
	}
	if c.Metrics.Endpoint == "" {
		c.Metrics.Endpoint = defaultEndpoint
	}
	if c.Metrics.Interval <= 0 {
		c.Metrics.Interval = 15 * time.Second
	}
}

func (c *RunnerConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := validation.Validate(c); err != nil {
		return err
	}
	if appErr := validation.New().
		FloatRange("tracing.sample_rate", c.Tracing.SampleRate, 0, 1).
		Unique("pipelines.dirs", c.Pipelines.Dirs).
		Validate(); appErr != nil {
		return appErr
	}
	return nil
}
