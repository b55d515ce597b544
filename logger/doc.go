// Package logger provides structured logging for pipekit using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers. The pipe core never logs by itself; attach
// pipes.LoggingHooks to a Context to get per-pipe log lines.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("runner")
//	log.Info("pipeline finished", logger.Fields("pipeline", name))
package logger
