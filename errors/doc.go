// Package errors provides the structured error type used across pipekit.
// Every failure raised by the pipe core carries a machine-readable code so
// callers can branch with errors.Is or CodeOf instead of matching strings.
package errors
