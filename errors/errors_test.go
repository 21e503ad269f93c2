package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_New_Retryable(t *testing.T) {
	tests := []struct {
		code      ErrorCode
		retryable bool
	}{
		{ErrCodeSourceFailed, true},
		{ErrCodeSourceUnavailable, true},
		{ErrCodeStreamConsumed, false},
		{ErrCodeEmptyReduction, false},
		{ErrCodeInternal, false},
	}
	for _, tc := range tests {
		t.Run(string(tc.code), func(t *testing.T) {
			err := New(tc.code, "msg")
			if err.Retryable != tc.retryable {
				t.Errorf("Retryable = %v, want %v", err.Retryable, tc.retryable)
			}
		})
	}
}

func TestAppError_Error_WithCause(t *testing.T) {
	err := SourceFailed("channel", fmt.Errorf("broken pipe"))
	msg := err.Error()
	if !strings.Contains(msg, "SOURCE_FAILED") || !strings.Contains(msg, "broken pipe") {
		t.Errorf("unexpected message %q", msg)
	}
	if !err.Retryable {
		t.Error("SourceFailed should be retryable")
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Internal(cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestAppError_IsMatchesByCode(t *testing.T) {
	sentinel := New(ErrCodeStreamConsumed, "sentinel")
	err := fmt.Errorf("wrapped: %w", StreamConsumed("map"))

	if !stderrors.Is(err, sentinel) {
		t.Error("expected wrapped STREAM_CONSUMED to match sentinel")
	}
	if stderrors.Is(err, New(ErrCodeEmptyReduction, "other")) {
		t.Error("different codes must not match")
	}
	if stderrors.Is(err, fmt.Errorf("plain")) {
		t.Error("plain error must not match")
	}
}

func TestStreamConsumed(t *testing.T) {
	err := StreamConsumed("collect")
	if err.Code != ErrCodeStreamConsumed {
		t.Errorf("expected STREAM_CONSUMED, got %s", err.Code)
	}
	if err.Details["operation"] != "collect" {
		t.Errorf("expected operation=collect, got %v", err.Details["operation"])
	}
}

func TestShapeMismatch(t *testing.T) {
	err := ShapeMismatch(3, "key/value pair", 42)
	if err.Code != ErrCodeShapeMismatch {
		t.Errorf("expected SHAPE_MISMATCH, got %s", err.Code)
	}
	if err.Details["index"] != 3 {
		t.Errorf("expected index=3, got %v", err.Details["index"])
	}
	if err.Details["got"] != "int" {
		t.Errorf("expected got=int, got %v", err.Details["got"])
	}
}

func TestUnsupportedOperation(t *testing.T) {
	err := UnsupportedOperation("Op(9)")
	if !strings.Contains(err.Message, "Op(9)") {
		t.Errorf("message should name the kind, got %q", err.Message)
	}
}

func TestInvalidInput_EmptyField(t *testing.T) {
	err := InvalidInput("", "bad")
	if _, ok := err.Details["field"]; ok {
		t.Error("expected no 'field' key in details when field is empty")
	}
}

func TestWithDetails(t *testing.T) {
	err := InvalidConfig("bad config").
		WithDetail("field", "top").
		WithDetails(map[string]any{"min": 1})
	if err.Details["field"] != "top" || err.Details["min"] != 1 {
		t.Errorf("unexpected details %v", err.Details)
	}
}

func TestAsAppError(t *testing.T) {
	wrapped := fmt.Errorf("ctx: %w", EmptyReduction())
	appErr, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AppError")
	}
	if appErr.Code != ErrCodeEmptyReduction {
		t.Errorf("got %s", appErr.Code)
	}
	if _, ok := AsAppError(fmt.Errorf("plain")); ok {
		t.Error("plain error is not an AppError")
	}
	if !IsAppError(wrapped) {
		t.Error("IsAppError should be true")
	}
}

func TestHasCode(t *testing.T) {
	if !HasCode(ShapeMismatch(0, "pair", "x"), ErrCodeShapeMismatch) {
		t.Error("expected HasCode true")
	}
	if HasCode(nil, ErrCodeShapeMismatch) {
		t.Error("nil has no code")
	}
}
