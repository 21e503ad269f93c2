package resilience

import (
	"context"

	"github.com/kbukum/streamkit/stream"
)

type retryIterator[T any] struct {
	source stream.Iterator[T]
	cfg    RetryConfig
}

// RetryIterator wraps source so that a failed Next is retried according to
// cfg. The attempt count starts over for every element. The source must
// accept another Next after reporting an error.
func RetryIterator[T any](source stream.Iterator[T], cfg RetryConfig) stream.Iterator[T] {
	cfg.ApplyDefaults()
	return &retryIterator[T]{source: source, cfg: cfg}
}

type next[T any] struct {
	v  T
	ok bool
}

func (r *retryIterator[T]) Next(ctx context.Context) (T, bool, error) {
	res, err := Retry(ctx, r.cfg, func() (next[T], error) {
		v, ok, err := r.source.Next(ctx)
		return next[T]{v: v, ok: ok}, err
	})
	return res.v, res.ok, err
}

func (r *retryIterator[T]) Close() error { return r.source.Close() }
