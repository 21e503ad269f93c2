package resilience

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/zoobzio/clockz"

	"github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/stream"
)

var errUnavailable = errors.SourceUnavailable("test", stderrors.New("connection refused"))

func fastConfig(attempts int) RetryConfig {
	return RetryConfig{MaxAttempts: attempts, InitialBackoff: time.Millisecond, MaxBackoff: 5 * time.Millisecond}
}

func TestRetry(t *testing.T) {
	tests := []struct {
		name      string
		failures  int
		err       error
		attempts  int
		wantCalls int
		wantErr   bool
	}{
		{name: "first attempt", failures: 0, err: errUnavailable, attempts: 3, wantCalls: 1},
		{name: "succeeds after retry", failures: 2, err: errUnavailable, attempts: 3, wantCalls: 3},
		{name: "exhausted", failures: 5, err: errUnavailable, attempts: 3, wantCalls: 3, wantErr: true},
		{name: "not retryable", failures: 5, err: errors.InvalidInput("x", "bad"), attempts: 3, wantCalls: 1, wantErr: true},
		{name: "plain error not retried", failures: 5, err: stderrors.New("boom"), attempts: 3, wantCalls: 1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			got, err := Retry(context.Background(), fastConfig(tt.attempts), func() (string, error) {
				calls++
				if calls <= tt.failures {
					return "", tt.err
				}
				return "ok", nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if tt.wantErr {
				if !stderrors.Is(err, tt.err) {
					t.Errorf("err = %v, want %v", err, tt.err)
				}
				return
			}
			if err != nil || got != "ok" {
				t.Errorf("Retry = %q, %v", got, err)
			}
		})
	}
}

func TestRetry_OnRetryBackoff(t *testing.T) {
	cfg := RetryConfig{
		MaxAttempts:    4,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     3 * time.Millisecond,
		BackoffFactor:  2,
	}
	var delays []time.Duration
	cfg.OnRetry = func(_ int, _ error, d time.Duration) { delays = append(delays, d) }

	_, err := Retry(context.Background(), cfg, func() (int, error) { return 0, errUnavailable })
	if err == nil {
		t.Fatal("expected error")
	}
	want := []time.Duration{time.Millisecond, 2 * time.Millisecond, 3 * time.Millisecond}
	if fmt.Sprint(delays) != fmt.Sprint(want) {
		t.Errorf("delays = %v, want %v", delays, want)
	}
}

func TestRetry_ContextCancelledWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Hour,
		Clock:          clockz.NewFakeClock(),
		OnRetry:        func(int, error, time.Duration) { cancel() },
	}

	calls := 0
	_, err := Retry(ctx, cfg, func() (int, error) {
		calls++
		return 0, errUnavailable
	})
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestBackoff(t *testing.T) {
	cfg := RetryConfig{InitialBackoff: 100 * time.Millisecond, MaxBackoff: time.Second, BackoffFactor: 3}
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 300 * time.Millisecond},
		{3, 900 * time.Millisecond},
		{4, time.Second},
	}
	for _, tt := range tests {
		if got := backoff(tt.attempt, cfg); got != tt.want {
			t.Errorf("backoff(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}

	cfg.Jitter = 0.5
	for range 20 {
		if got := backoff(1, cfg); got < 50*time.Millisecond || got > 150*time.Millisecond {
			t.Fatalf("jittered backoff = %v, want within 50ms..150ms", got)
		}
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"source failed", errors.SourceFailed("x", nil), true},
		{"source unavailable", errUnavailable, true},
		{"wrapped", fmt.Errorf("read: %w", errUnavailable), true},
		{"invalid input", errors.InvalidInput("x", "bad"), false},
		{"canceled", context.Canceled, false},
		{"plain", stderrors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable = %v, want %v", got, tt.want)
			}
		})
	}
}

// flakyIter yields 0..n-1 and fails once before each element listed in failAt.
type flakyIter struct {
	n      int
	i      int
	failAt map[int]bool
	calls  int
	closed bool
}

func (f *flakyIter) Next(context.Context) (int, bool, error) {
	f.calls++
	if f.failAt[f.i] {
		delete(f.failAt, f.i)
		return 0, false, errUnavailable
	}
	if f.i >= f.n {
		return 0, false, nil
	}
	v := f.i
	f.i++
	return v, true, nil
}

func (f *flakyIter) Close() error {
	f.closed = true
	return nil
}

func TestRetryIterator(t *testing.T) {
	src := &flakyIter{n: 4, failAt: map[int]bool{0: true, 2: true, 4: true}}
	s := stream.FromIterator(RetryIterator[int](src, fastConfig(2)))

	got, err := s.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if fmt.Sprint(got) != "[0 1 2 3]" {
		t.Errorf("got %v", got)
	}
	if src.calls != 8 {
		t.Errorf("source calls = %d, want 8", src.calls)
	}
	if !src.closed {
		t.Error("source not closed")
	}
}

func TestRetryIterator_GivesUp(t *testing.T) {
	src := &flakyIter{n: 4, failAt: map[int]bool{1: true}}
	s := stream.FromIterator(RetryIterator[int](src, fastConfig(1)))

	_, err := s.Collect(context.Background())
	if !errors.HasCode(err, errors.ErrCodeSourceUnavailable) {
		t.Fatalf("err = %v, want SOURCE_UNAVAILABLE", err)
	}
}
