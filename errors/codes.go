package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Stream lifecycle and terminal errors
const (
	// ErrCodeStreamConsumed indicates a call on a stream whose terminal operation already ran.
	ErrCodeStreamConsumed ErrorCode = "STREAM_CONSUMED"
	// ErrCodeEmptyReduction indicates a reduce without initial value over an empty sequence.
	ErrCodeEmptyReduction ErrorCode = "EMPTY_REDUCTION"
	// ErrCodeShapeMismatch indicates an element that does not fit the requested container.
	ErrCodeShapeMismatch ErrorCode = "SHAPE_MISMATCH"
	// ErrCodeUnsupportedOperation indicates an operation kind the composer cannot dispatch.
	ErrCodeUnsupportedOperation ErrorCode = "UNSUPPORTED_OPERATION"
)

// Source errors (retryable)
const (
	// ErrCodeSourceFailed indicates the value source returned an error while being drained.
	ErrCodeSourceFailed ErrorCode = "SOURCE_FAILED"
	// ErrCodeSourceUnavailable indicates the value source could not be opened.
	ErrCodeSourceUnavailable ErrorCode = "SOURCE_UNAVAILABLE"
)

// Input and configuration errors
const (
	// ErrCodeInvalidInput indicates an invalid argument.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeInvalidConfig indicates configuration that failed validation.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeSourceFailed:      true,
	ErrCodeSourceUnavailable: true,
	ErrCodeInternal:          false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
