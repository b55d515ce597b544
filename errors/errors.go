package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is matches any *AppError carrying the same code, so a bare AppError can be
// used as a sentinel with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// Detail returns a detail value as a string, or "" when absent.
func (e *AppError) Detail(key string) string {
	v, ok := e.Details[key]
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// --- Constructors ---

// Override creates an AppError for a context key written twice.
func Override(key string) *AppError {
	return &AppError{
		Code: ErrCodeOverride, Message: fmt.Sprintf("property :%s already present", key),
		Details: map[string]any{"key": key},
	}
}

// KeyNotFound creates an AppError for a read of an unset context key.
func KeyNotFound(key string) *AppError {
	return &AppError{
		Code: ErrCodeKeyNotFound, Message: fmt.Sprintf("context key %q not found", key),
		Details: map[string]any{"key": key},
	}
}

// TypeMismatch creates an AppError for a typed read of the wrong type.
func TypeMismatch(key string, expected, got any) *AppError {
	return &AppError{
		Code:    ErrCodeTypeMismatch,
		Message: fmt.Sprintf("context key %q: expected %T, got %T", key, expected, got),
		Details: map[string]any{
			"key":      key,
			"expected": fmt.Sprintf("%T", expected),
			"got":      fmt.Sprintf("%T", got),
		},
	}
}

// InvalidKey creates an AppError for an unusable key name.
func InvalidKey(reason string) *AppError {
	return &AppError{Code: ErrCodeInvalidKey, Message: reason}
}

// MissingContext creates an AppError for a broken required/provided contract.
// Phase is "required" or "provided".
func MissingContext(pipe, key, phase string) *AppError {
	return &AppError{
		Code:    ErrCodeMissingContext,
		Message: fmt.Sprintf("%s: %s context element :%s missing", pipe, phase, key),
		Details: map[string]any{"pipe": pipe, "key": key, "phase": phase},
	}
}

// MissingCallMethod creates an AppError for a pipe that never defined its work.
func MissingCallMethod(pipe string) *AppError {
	return &AppError{
		Code:    ErrCodeMissingCallMethod,
		Message: fmt.Sprintf("%s does not implement call", pipe),
		Details: map[string]any{"pipe": pipe},
	}
}

// UnknownPipe creates an AppError for an unregistered pipe name.
func UnknownPipe(name string) *AppError {
	return &AppError{
		Code: ErrCodeUnknownPipe, Message: fmt.Sprintf("pipe %q is not registered", name),
		Details: map[string]any{"pipe": name},
	}
}

// Conflict creates an AppError for a name that is already taken.
func Conflict(reason string) *AppError {
	return &AppError{Code: ErrCodeConflict, Message: reason}
}

// InvalidDefinition creates an AppError for an unusable pipeline definition.
func InvalidDefinition(name, reason string) *AppError {
	details := make(map[string]any)
	if name != "" {
		details["definition"] = name
	}
	return &AppError{
		Code: ErrCodeInvalidDefinition, Message: reason, Details: details,
	}
}

// DefinitionNotFound creates an AppError for a definition no loader source holds.
func DefinitionNotFound(name string) *AppError {
	return &AppError{
		Code: ErrCodeDefinitionNotFound, Message: fmt.Sprintf("pipeline definition %q not found", name),
		Details: map[string]any{"definition": name},
	}
}

// Validation creates an AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message}
}

// Internal creates an AppError for an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "an unexpected error occurred", Cause: cause,
	}
}

// --- Inspection ---

// CodeOf returns the code of the first AppError in err's chain, or "" if none.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// HasCode reports whether err's chain contains an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	return err != nil && stderrors.Is(err, &AppError{Code: code})
}
