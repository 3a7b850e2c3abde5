package eda

import "fmt"

// Validation error codes
const (
	ErrCodeLengthMismatch = "LENGTH_MISMATCH"
	ErrCodeIndexRange     = "INDEX_OUT_OF_RANGE"
	ErrCodePeakOrder      = "PEAKS_NOT_INCREASING"
	ErrCodeSamplingRate   = "INVALID_SAMPLING_RATE"
	ErrCodeValue          = "INVALID_VALUE"
)

// ValidationError reports a structural precondition violation in an event
// set or extraction input. Per-event data gaps (missing onsets, absent
// recovery points) are not validation errors; they surface as missing
// feature values instead.
type ValidationError struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(code, field, message string) *ValidationError {
	return &ValidationError{
		Code:    code,
		Field:   field,
		Message: message,
	}
}

func validationErrorf(code, field, format string, args ...any) *ValidationError {
	return NewValidationError(code, field, fmt.Sprintf(format, args...))
}
