// Package errors defines coded application errors and the mapping from PostgreSQL failures onto them.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	ErrCodeNotFound   ErrorCode = "not_found"
	ErrCodeConflict   ErrorCode = "conflict"
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeForeignKey means a referenced row (usually the owning subscriber) is missing.
	ErrCodeForeignKey ErrorCode = "foreign_key"
	ErrCodeInternal   ErrorCode = "internal"
	ErrCodeTimeout    ErrorCode = "timeout"
	ErrCodeCanceled   ErrorCode = "canceled"
)

// AppError carries a code, an operator-facing message and the underlying cause.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
	// Field names the offending input, when known.
	Field string
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// ErrorClass tags metrics with the error code.
func (e *AppError) ErrorClass() string {
	return "app_" + string(e.Code)
}

// Conflict creates a new Conflict error.
func Conflict(message string) *AppError {
	return &AppError{Code: ErrCodeConflict, Message: message}
}

// ValidationField creates a Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message, Field: field}
}

// Wrap wraps err with a code and message. A nil err yields nil.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsConflict reports whether err carries ErrCodeConflict.
func IsConflict(err error) bool { return isCode(err, ErrCodeConflict) }

// IsValidation reports whether err carries ErrCodeValidation.
func IsValidation(err error) bool { return isCode(err, ErrCodeValidation) }

// IsForeignKey reports whether err carries ErrCodeForeignKey.
func IsForeignKey(err error) bool { return isCode(err, ErrCodeForeignKey) }

// GetCode returns the code of the outermost AppError in the chain, or "".
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field of the outermost AppError in the chain, or "".
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
