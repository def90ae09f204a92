package errors

import (
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether err is an AppError carrying the given code
func HasCode(err error, code string) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == code
}

// Predefined error codes
const (
	CodeConfigInvalid        = "CONFIG_INVALID"
	CodeInvalidConfiguration = "INVALID_CONFIGURATION"
	CodeDegenerateInput      = "DEGENERATE_INPUT"
	CodeMissingColumn        = "MISSING_COLUMN"
	CodeValidationError      = "VALIDATION_ERROR"
	CodeInternalError        = "INTERNAL_ERROR"
)

// Common error constructors

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

// InvalidConfiguration marks an unusable strategy or edge configuration.
// These are surfaced to the caller immediately and never retried.
func InvalidConfiguration(message string) *AppError {
	return New(CodeInvalidConfiguration, message)
}

// DegenerateInput marks data with too little spread for a statistic.
func DegenerateInput(message string) *AppError {
	return New(CodeDegenerateInput, message)
}

// MissingColumn marks a requested column absent from the dataset.
func MissingColumn(name string) *AppError {
	return New(CodeMissingColumn, fmt.Sprintf("column %q not found in dataset", name))
}

func ValidationError(message string) *AppError {
	return New(CodeValidationError, message)
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}
