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
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Rule errors
	ErrRuleNotFound ErrorCode = "RULE_NOT_FOUND"
	ErrRuleInvalid  ErrorCode = "RULE_INVALID"

	// Sound errors
	ErrSoundNotFound ErrorCode = "SOUND_NOT_FOUND"
	ErrSoundInvalid  ErrorCode = "SOUND_INVALID"
)

// CueError represents a structured error with code and details
type CueError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *CueError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *CueError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *CueError) Is(target error) bool {
	var targetErr *CueError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new CueError with the given code and message
func New(code ErrorCode, message string) *CueError {
	return &CueError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new CueError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *CueError {
	return &CueError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a CueError
func Wrap(err error, code ErrorCode, message string) *CueError {
	if err == nil {
		return nil
	}
	return &CueError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *CueError {
	if err == nil {
		return nil
	}
	return &CueError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *CueError) WithDetail(key string, value interface{}) *CueError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var cueErr *CueError
	if errors.As(err, &cueErr) {
		return cueErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a CueError
func GetErrorCode(err error) ErrorCode {
	var cueErr *CueError
	if errors.As(err, &cueErr) {
		return cueErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a CueError
func GetErrorDetails(err error) map[string]interface{} {
	var cueErr *CueError
	if errors.As(err, &cueErr) {
		return cueErr.Details
	}
	return nil
}
