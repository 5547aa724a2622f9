package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeInvalidCredentials indicates login was attempted without an email or password.
	ErrCodeInvalidCredentials ErrorCode = "invalid_credentials"
	// ErrCodeInvalidRegistration indicates signup details were missing or inconsistent.
	ErrCodeInvalidRegistration ErrorCode = "invalid_registration"
	// ErrCodeRequestFailed indicates a backend call (exchange, notifier, storage) failed.
	ErrCodeRequestFailed ErrorCode = "request_failed"
	// ErrCodeMalformedSession indicates a persisted session record could not be used.
	ErrCodeMalformedSession ErrorCode = "malformed_session"
	// ErrCodeOperationInProgress indicates another credential operation is outstanding for the client.
	ErrCodeOperationInProgress ErrorCode = "operation_in_progress"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeConflict indicates a conflict with existing data (e.g., unique constraint violation).
	ErrCodeConflict ErrorCode = "conflict"
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "internal"
	// ErrCodeTimeout indicates a timeout occurred.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeCanceled indicates the operation was canceled.
	ErrCodeCanceled ErrorCode = "canceled"
)

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific field that caused the error (optional, for validation errors)
	Field string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// InvalidCredentials creates a new InvalidCredentials error.
func InvalidCredentials(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidCredentials, Message: message}
}

// InvalidRegistration creates a new InvalidRegistration error.
func InvalidRegistration(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidRegistration, Message: message}
}

// InvalidRegistrationField creates a new InvalidRegistration error for a specific field.
func InvalidRegistrationField(field, message string) *AppError {
	return &AppError{Code: ErrCodeInvalidRegistration, Message: message, Field: field}
}

// RequestFailed wraps a backend failure.
func RequestFailed(err error, message string) *AppError {
	return &AppError{Code: ErrCodeRequestFailed, Message: message, Cause: err}
}

// MalformedSession wraps a decoding or consistency failure of a persisted session record.
func MalformedSession(err error) *AppError {
	return &AppError{Code: ErrCodeMalformedSession, Message: "malformed session record", Cause: err}
}

// OperationInProgress creates a new OperationInProgress error.
func OperationInProgress(message string) *AppError {
	return &AppError{Code: ErrCodeOperationInProgress, Message: message}
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message}
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message, Field: field}
}

// Internalf creates a new Internal error with formatted message.
func Internalf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsInvalidCredentials checks if an error is an InvalidCredentials error.
func IsInvalidCredentials(err error) bool { return isCode(err, ErrCodeInvalidCredentials) }

// IsInvalidRegistration checks if an error is an InvalidRegistration error.
func IsInvalidRegistration(err error) bool { return isCode(err, ErrCodeInvalidRegistration) }

// IsRequestFailed checks if an error is a RequestFailed error.
func IsRequestFailed(err error) bool { return isCode(err, ErrCodeRequestFailed) }

// IsMalformedSession checks if an error is a MalformedSession error.
func IsMalformedSession(err error) bool { return isCode(err, ErrCodeMalformedSession) }

// IsOperationInProgress checks if an error is an OperationInProgress error.
func IsOperationInProgress(err error) bool { return isCode(err, ErrCodeOperationInProgress) }

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool { return isCode(err, ErrCodeNotFound) }

// IsConflict checks if an error is a Conflict error.
func IsConflict(err error) bool { return isCode(err, ErrCodeConflict) }

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool { return isCode(err, ErrCodeValidation) }

// IsInternal checks if an error is an Internal error.
func IsInternal(err error) bool { return isCode(err, ErrCodeInternal) }

// GetCode returns the outermost ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
