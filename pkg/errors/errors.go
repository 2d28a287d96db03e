package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Environment errors
	ErrEnvFileRead ErrorCode = "ENV_FILE_READ"

	// Rendering errors
	ErrTemplateNotFound ErrorCode = "TEMPLATE_NOT_FOUND"
	ErrMissingVariables ErrorCode = "MISSING_VARIABLES"

	// FileSystem errors
	ErrFileRead   ErrorCode = "FILE_READ"
	ErrFileWrite  ErrorCode = "FILE_WRITE"
	ErrFileAccess ErrorCode = "FILE_ACCESS"
	ErrDirCreate  ErrorCode = "DIR_CREATE"
)

// EnvrenderError represents a structured error with code and details
type EnvrenderError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *EnvrenderError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *EnvrenderError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *EnvrenderError) Is(target error) bool {
	var targetErr *EnvrenderError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new EnvrenderError with the given code and message
func New(code ErrorCode, message string) *EnvrenderError {
	return &EnvrenderError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new EnvrenderError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *EnvrenderError {
	return &EnvrenderError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an EnvrenderError
func Wrap(err error, code ErrorCode, message string) *EnvrenderError {
	if err == nil {
		return nil
	}
	return &EnvrenderError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *EnvrenderError {
	if err == nil {
		return nil
	}
	return &EnvrenderError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *EnvrenderError) WithDetail(key string, value interface{}) *EnvrenderError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *EnvrenderError) WithDetails(details map[string]interface{}) *EnvrenderError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var renderErr *EnvrenderError
	if errors.As(err, &renderErr) {
		return renderErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an EnvrenderError
func GetErrorCode(err error) ErrorCode {
	var renderErr *EnvrenderError
	if errors.As(err, &renderErr) {
		return renderErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an EnvrenderError
func GetErrorDetails(err error) map[string]interface{} {
	var renderErr *EnvrenderError
	if errors.As(err, &renderErr) {
		return renderErr.Details
	}
	return nil
}

// GetErrorMessage returns the user-facing message of an error. Coded errors
// yield their message without the code prefix; a wrapped cause is appended
// the same way.
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var renderErr *EnvrenderError
	if errors.As(err, &renderErr) {
		if renderErr.Wrapped != nil {
			return fmt.Sprintf("%s: %s", renderErr.Message, GetErrorMessage(renderErr.Wrapped))
		}
		return renderErr.Message
	}
	return err.Error()
}
