package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Context errors
const (
	// ErrCodeOverride indicates an attempt to write a context key twice.
	ErrCodeOverride ErrorCode = "CONTEXT_OVERRIDE"
	// ErrCodeKeyNotFound indicates a read of a key that was never set.
	ErrCodeKeyNotFound ErrorCode = "KEY_NOT_FOUND"
	// ErrCodeTypeMismatch indicates a typed read found a value of another type.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"
	// ErrCodeInvalidKey indicates an empty or otherwise unusable key name.
	ErrCodeInvalidKey ErrorCode = "INVALID_KEY"
)

// Pipe contract errors
const (
	// ErrCodeMissingContext indicates a required or provided key was absent.
	ErrCodeMissingContext ErrorCode = "MISSING_CONTEXT"
	// ErrCodeMissingCallMethod indicates a pipe has no work implementation.
	ErrCodeMissingCallMethod ErrorCode = "MISSING_CALL_METHOD"
)

// Composition errors
const (
	// ErrCodeUnknownPipe indicates a registry lookup for an unregistered name.
	ErrCodeUnknownPipe ErrorCode = "UNKNOWN_PIPE"
	// ErrCodeConflict indicates a name is already taken.
	ErrCodeConflict ErrorCode = "CONFLICT"
	// ErrCodeInvalidDefinition indicates a pipeline definition could not be used.
	ErrCodeInvalidDefinition ErrorCode = "INVALID_DEFINITION"
	// ErrCodeDefinitionNotFound indicates no loader source holds the named definition.
	ErrCodeDefinitionNotFound ErrorCode = "DEFINITION_NOT_FOUND"
	// ErrCodeInvalidInput indicates invalid input such as a failed struct validation.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// ErrCodeInternal indicates an unexpected failure, e.g. a recovered panic.
const ErrCodeInternal ErrorCode = "INTERNAL"

// contractCodes are the codes that signal an author error in the pipeline
// itself rather than a failure of the work being done.
var contractCodes = map[ErrorCode]bool{
	ErrCodeOverride:          true,
	ErrCodeMissingContext:    true,
	ErrCodeMissingCallMethod: true,
	ErrCodeInvalidKey:        true,
}

// IsContractCode reports whether code marks a broken pipeline contract.
func IsContractCode(code ErrorCode) bool {
	return contractCodes[code]
}
