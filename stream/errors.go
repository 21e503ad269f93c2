package stream

import "github.com/kbukum/streamkit/errors"

// Sentinels for errors.Is. Every error returned by this package is an
// *errors.AppError and matches the sentinel of its code.
var (
	ErrConsumed             = errors.New(errors.ErrCodeStreamConsumed, "stream has already been consumed")
	ErrEmptyReduction       = errors.New(errors.ErrCodeEmptyReduction, "reduce of empty sequence with no initial value")
	ErrShapeMismatch        = errors.New(errors.ErrCodeShapeMismatch, "element shape does not match container")
	ErrUnsupportedOperation = errors.New(errors.ErrCodeUnsupportedOperation, "operation not supported")
	ErrSourceFailed         = errors.New(errors.ErrCodeSourceFailed, "source failed")
)
