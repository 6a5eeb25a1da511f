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
	ErrPermission   ErrorCode = "PERMISSION"

	// Query errors
	ErrUnknownCategory  ErrorCode = "UNKNOWN_CATEGORY"
	ErrRuleNotFound     ErrorCode = "RULE_NOT_FOUND"
	ErrTemplateNotFound ErrorCode = "TEMPLATE_NOT_FOUND"

	// Storage errors
	ErrStorageRead  ErrorCode = "STORAGE_READ"
	ErrStorageParse ErrorCode = "STORAGE_PARSE"

	// Matching errors
	ErrMalformedPattern ErrorCode = "MALFORMED_PATTERN"
	ErrMatchTimeout     ErrorCode = "MATCH_TIMEOUT"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// FileSystem errors
	ErrFileAccess ErrorCode = "FILE_ACCESS"
	ErrFileCreate ErrorCode = "FILE_CREATE"
)

// Detail keys shared between producers and the report projection.
const (
	DetailAvailableTypes = "available_types"
	DetailSuggestions    = "suggestions"
	DetailCategory       = "category"
	DetailPath           = "path"
)

// RulebookError represents a structured error with code and details
type RulebookError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *RulebookError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *RulebookError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *RulebookError) Is(target error) bool {
	var targetErr *RulebookError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new RulebookError with the given code and message
func New(code ErrorCode, message string) *RulebookError {
	return &RulebookError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new RulebookError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *RulebookError {
	return &RulebookError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a RulebookError
func Wrap(err error, code ErrorCode, message string) *RulebookError {
	if err == nil {
		return nil
	}
	return &RulebookError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *RulebookError {
	if err == nil {
		return nil
	}
	return &RulebookError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *RulebookError) WithDetail(key string, value interface{}) *RulebookError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *RulebookError) WithDetails(details map[string]interface{}) *RulebookError {
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
	var rbErr *RulebookError
	if errors.As(err, &rbErr) {
		return rbErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a RulebookError
func GetErrorCode(err error) ErrorCode {
	var rbErr *RulebookError
	if errors.As(err, &rbErr) {
		return rbErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a RulebookError
func GetErrorDetails(err error) map[string]interface{} {
	var rbErr *RulebookError
	if errors.As(err, &rbErr) {
		return rbErr.Details
	}
	return nil
}

// GetMessage returns the bare message of the outermost RulebookError without
// the code prefix or wrapped cause. Other errors return err.Error().
func GetMessage(err error) string {
	if err == nil {
		return ""
	}
	var rbErr *RulebookError
	if errors.As(err, &rbErr) {
		return rbErr.Message
	}
	return err.Error()
}
