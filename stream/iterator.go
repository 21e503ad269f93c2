package stream

import (
	"context"
	"sync"
)

// Iterator provides pull-based sequential access to an asynchronous source.
// Each call to Next is a suspension point: the caller waits until the source
// produces a value or reports exhaustion.
type Iterator[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when exhausted.
	Next(ctx context.Context) (T, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

// result carries a value or error through a channel.
type result[T any] struct {
	val T
	ok  bool
	err error
}

// --- slices ---

type sliceIter[T any] struct {
	items []T
	index int
}

func (it *sliceIter[T]) Next(_ context.Context) (T, bool, error) {
	if it.index >= len(it.items) {
		var zero T
		return zero, false, nil
	}
	val := it.items[it.index]
	it.index++
	return val, true, nil
}

func (it *sliceIter[T]) Close() error { return nil }

// --- channels ---

// chanIter reads from a channel fed by an external producer. The sequence
// ends when the channel is closed.
type chanIter[T any] struct {
	ch <-chan T
}

func (it *chanIter[T]) Next(ctx context.Context) (T, bool, error) {
	select {
	case v, open := <-it.ch:
		if !open {
			var zero T
			return zero, false, nil
		}
		return v, true, nil
	case <-ctx.Done():
		var zero T
		return zero, false, ctx.Err()
	}
}

func (it *chanIter[T]) Close() error { return nil }

// --- functions ---

type funcIter[T any] struct {
	next func(ctx context.Context) (T, bool, error)
	done bool
}

func (it *funcIter[T]) Next(ctx context.Context) (T, bool, error) {
	if it.done {
		var zero T
		return zero, false, nil
	}
	v, ok, err := it.next(ctx)
	if err != nil || !ok {
		it.done = true
	}
	return v, ok, err
}

func (it *funcIter[T]) Close() error { return nil }

// --- generators ---

// genIter runs a producer function in its own goroutine and hands values
// over one request at a time. The producer only resumes after the consumer
// asks for the next value, so it never runs ahead of demand.
type genIter[T any] struct {
	fn func(ctx context.Context, yield func(T) error) error

	req    chan struct{}
	res    chan result[T]
	cancel context.CancelFunc

	started bool
	done    bool
	// err is the context error of an abandoned pull. The producer may still
	// hold an undelivered value, so the iterator is finished after it.
	err  error
	once sync.Once
}

func newGenIter[T any](fn func(ctx context.Context, yield func(T) error) error) *genIter[T] {
	return &genIter[T]{
		fn:  fn,
		req: make(chan struct{}),
		res: make(chan result[T]),
	}
}

func (it *genIter[T]) start() {
	genCtx, cancel := context.WithCancel(context.Background())
	it.cancel = cancel
	it.started = true

	go func() {
		defer close(it.res)

		select {
		case <-it.req:
		case <-genCtx.Done():
			return
		}

		yield := func(v T) error {
			select {
			case it.res <- result[T]{val: v, ok: true}:
			case <-genCtx.Done():
				return genCtx.Err()
			}
			select {
			case <-it.req:
				return nil
			case <-genCtx.Done():
				return genCtx.Err()
			}
		}

		if err := it.fn(genCtx, yield); err != nil && genCtx.Err() == nil {
			select {
			case it.res <- result[T]{err: err}:
			case <-genCtx.Done():
			}
		}
	}()
}

func (it *genIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if it.err != nil {
		return zero, false, it.err
	}
	if it.done {
		return zero, false, nil
	}
	if !it.started {
		it.start()
	}

	select {
	case it.req <- struct{}{}:
	case <-ctx.Done():
		return zero, false, it.abandon(ctx.Err())
	}

	select {
	case r, open := <-it.res:
		if !open {
			it.done = true
			return zero, false, nil
		}
		if r.err != nil {
			it.done = true
			return zero, false, r.err
		}
		return r.val, true, nil
	case <-ctx.Done():
		return zero, false, it.abandon(ctx.Err())
	}
}

func (it *genIter[T]) abandon(err error) error {
	it.err = err
	_ = it.Close()
	return err
}

// Close stops the producer goroutine if it is still running.
func (it *genIter[T]) Close() error {
	it.once.Do(func() {
		it.done = true
		if it.cancel != nil {
			it.cancel()
		}
	})
	return nil
}

// --- adapters ---

// countingIter counts successful pulls from the wrapped source.
type countingIter[T any] struct {
	source Iterator[T]
	n      *int
}

func (it *countingIter[T]) Next(ctx context.Context) (T, bool, error) {
	v, ok, err := it.source.Next(ctx)
	if ok && err == nil {
		*it.n++
	}
	return v, ok, err
}

func (it *countingIter[T]) Close() error { return it.source.Close() }
