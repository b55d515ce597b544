// Package config loads runner configuration with Viper and godotenv.
//
// A config.yml is searched for in ./cmd/<service>/, ./config/ and ./, a
// matching .env is loaded into the process environment, and environment
// variables override file values (LOGGING_LEVEL overrides logging.level).
//
//	type RunnerConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Pipelines PipelinesConfig `yaml:"pipelines" mapstructure:"pipelines"`
//	}
//	cfg, err := config.Load[RunnerConfig]("pipekit")
package config
