package errors

import (
	stderrors "errors"
)

// ErrorResponse is the JSON envelope the CLI prints for a failed run.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody contains the error details.
type ErrorBody struct {
	Code     ErrorCode      `json:"code"`
	Message  string         `json:"message"`
	Contract bool           `json:"contract"`
	Details  map[string]any `json:"details,omitempty"`
}

// ToResponse converts an AppError to an ErrorResponse for JSON serialization.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{
		Error: ErrorBody{
			Code:     e.Code,
			Message:  e.Message,
			Contract: IsContractCode(e.Code),
			Details:  e.Details,
		},
	}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// ResponseFor builds an ErrorResponse for any error. Errors outside the
// AppError family are reported as INTERNAL with their message.
func ResponseFor(err error) ErrorResponse {
	if appErr, ok := AsAppError(err); ok {
		return appErr.ToResponse()
	}
	return ErrorResponse{Error: ErrorBody{Code: ErrCodeInternal, Message: err.Error()}}
}
