package pipes

import (
	"fmt"

	"github.com/kbukum/pipekit/errors"
)

// Sentinels for errors.Is. Matching is by code, so any error raised by this
// package with the same code matches regardless of its details.
var (
	ErrOverride          = errors.New(errors.ErrCodeOverride, "context key already present")
	ErrMissingContext    = errors.New(errors.ErrCodeMissingContext, "context element missing")
	ErrMissingCallMethod = errors.New(errors.ErrCodeMissingCallMethod, "pipe does not implement call")
	ErrKeyNotFound       = errors.New(errors.ErrCodeKeyNotFound, "context key not found")
	ErrTypeMismatch      = errors.New(errors.ErrCodeTypeMismatch, "context value has unexpected type")
	ErrInvalidKey        = errors.New(errors.ErrCodeInvalidKey, "invalid context key")
	ErrUnknownPipe       = errors.New(errors.ErrCodeUnknownPipe, "pipe not registered")
	ErrInvalidDefinition = errors.New(errors.ErrCodeInvalidDefinition, "invalid pipeline definition")
)

// PanicError carries a value recovered from a panicking pipe.
type PanicError struct {
	Pipe  string
	Value any
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%s panicked: %v", e.Pipe, e.Value)
}
