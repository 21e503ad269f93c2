package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified streamkit error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
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

// Is reports whether target is an AppError carrying the same code.
// This lets package-level sentinels match any instance of their code.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !stderrors.As(target, &t) {
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

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Stream constructors ---

// StreamConsumed creates an AppError for a call made after the terminal operation.
func StreamConsumed(operation string) *AppError {
	return &AppError{
		Code:    ErrCodeStreamConsumed,
		Message: fmt.Sprintf("cannot %s: stream has already been consumed", operation),
		Details: map[string]any{"operation": operation},
	}
}

// EmptyReduction creates an AppError for reducing an empty sequence without an initial value.
func EmptyReduction() *AppError {
	return &AppError{
		Code:    ErrCodeEmptyReduction,
		Message: "reduce of empty sequence with no initial value",
	}
}

// ShapeMismatch creates an AppError for an element that does not have the shape the container needs.
func ShapeMismatch(index int, expected string, got any) *AppError {
	return &AppError{
		Code:    ErrCodeShapeMismatch,
		Message: fmt.Sprintf("element %d is %T, expected %s", index, got, expected),
		Details: map[string]any{"index": index, "expected": expected, "got": fmt.Sprintf("%T", got)},
	}
}

// UnsupportedOperation creates an AppError for an operation kind the composer has no case for.
func UnsupportedOperation(kind string) *AppError {
	return &AppError{
		Code:    ErrCodeUnsupportedOperation,
		Message: fmt.Sprintf("operation %s not supported", kind),
		Details: map[string]any{"kind": kind},
	}
}

// SourceFailed creates an AppError wrapping an error returned by a value source.
func SourceFailed(source string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeSourceFailed, Message: fmt.Sprintf("reading from %s failed", source),
		Retryable: true, Details: map[string]any{"source": source}, Cause: cause,
	}
}

// SourceUnavailable creates an AppError for a value source that could not be opened.
func SourceUnavailable(source string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeSourceUnavailable, Message: fmt.Sprintf("%s is unavailable", source),
		Retryable: true, Details: map[string]any{"source": source}, Cause: cause,
	}
}

// --- General constructors ---

// InvalidInput creates an AppError for an invalid argument.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("invalid input: %s", reason),
		Details: details,
	}
}

// InvalidConfig creates an AppError for configuration that failed validation.
func InvalidConfig(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidConfig, Message: message}
}

// Internal creates an AppError for an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "an unexpected error occurred",
		Cause: cause,
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

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
