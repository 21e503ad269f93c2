package stream

import (
	"context"

	"github.com/kbukum/streamkit/errors"
)

// AsyncStream is the asynchronous counterpart of Stream. Its source is an
// Iterator pulled one element at a time; terminal calls take a context that
// is handed to the source on every pull.
//
// The pipeline adds no cancellation of its own: a source that never answers
// keeps the terminal call waiting unless the source itself honours ctx.
type AsyncStream[T any] struct {
	handle[T]
	source Iterator[T]
}

// FromIterator wraps an iterator. The stream owns it and closes it when the
// terminal call returns.
func FromIterator[T any](it Iterator[T]) *AsyncStream[T] {
	if it == nil {
		it = &sliceIter[T]{}
	}
	return &AsyncStream[T]{handle: newHandle[T](), source: it}
}

// FromChannel streams values received from ch until it is closed.
func FromChannel[T any](ch <-chan T) *AsyncStream[T] {
	return FromIterator[T](&chanIter[T]{ch: ch})
}

// FromFunc streams values returned by next until it reports exhaustion or fails.
func FromFunc[T any](next func(ctx context.Context) (T, bool, error)) *AsyncStream[T] {
	return FromIterator[T](&funcIter[T]{next: next})
}

// Generate streams the values a producer passes to yield. The producer runs
// in its own goroutine but only between a request for the next value and the
// matching yield; returning ends the stream, a non-nil error fails it. yield
// returns an error once the stream is closed and the producer should stop.
func Generate[T any](fn func(ctx context.Context, yield func(T) error) error) *AsyncStream[T] {
	return FromIterator[T](newGenIter(fn))
}

// AsyncOf streams the given values through the asynchronous engine.
func AsyncOf[T any](values ...T) *AsyncStream[T] {
	return FromIterator[T](&sliceIter[T]{items: values})
}

// With applies options to the stream.
func (s *AsyncStream[T]) With(opts ...Option) *AsyncStream[T] {
	s.apply(opts)
	return s
}

// Map records a transformation of every element.
func (s *AsyncStream[T]) Map(fn func(T) T) *AsyncStream[T] {
	s.push(MapOp(fn))
	return s
}

// Filter records a predicate; only elements for which fn returns true are kept.
func (s *AsyncStream[T]) Filter(fn func(T) bool) *AsyncStream[T] {
	s.push(FilterOp(fn))
	return s
}

// Skip records dropping the first n elements that reach this stage.
func (s *AsyncStream[T]) Skip(n int) *AsyncStream[T] {
	s.push(SkipOp[T](n))
	return s
}

// MapToAsync consumes s and returns a new stream of fn applied to each
// element of s after its pending operations.
func MapToAsync[T, U any](s *AsyncStream[T], fn func(T) U) *AsyncStream[U] {
	out := &AsyncStream[U]{handle: newHandle[U]()}
	s.inherit(&out.opts)

	ops, err := s.begin("map_to")
	if err == nil {
		var it Iterator[T]
		if it, err = composeIter(s.source, ops); err == nil {
			out.source = &mapIter[T, U]{source: it, fn: fn}
			return out
		}
		_ = s.source.Close()
	}
	out.source = &sliceIter[U]{}
	out.state = stateClosed
	out.err = err
	return out
}

// --- Terminals ---

// Collect returns the elements in order.
func (s *AsyncStream[T]) Collect(ctx context.Context) ([]T, error) {
	return IntoAsync(ctx, s, ToSlice[T]())
}

// Reduce folds the elements left to right, seeded with the first element.
// It fails with ErrEmptyReduction when there is no element.
func (s *AsyncStream[T]) Reduce(ctx context.Context, fn func(T, T) T) (T, error) {
	var acc T
	seeded := false
	err := s.drain(ctx, "reduce",
		func(v T) error {
			if !seeded {
				acc, seeded = v, true
				return nil
			}
			acc = fn(acc, v)
			return nil
		},
		func() error {
			if !seeded {
				return errors.EmptyReduction()
			}
			return nil
		},
	)
	if err != nil {
		var zero T
		return zero, err
	}
	return acc, nil
}

// ReduceFrom folds the elements left to right starting from initial.
func (s *AsyncStream[T]) ReduceFrom(ctx context.Context, fn func(T, T) T, initial T) (T, error) {
	return FoldAsync(ctx, s, initial, fn)
}

// Count returns the number of elements.
func (s *AsyncStream[T]) Count(ctx context.Context) (int, error) {
	n := 0
	err := s.drain(ctx, "count", func(T) error { n++; return nil }, nil)
	return n, err
}

// ForEach calls fn for every element.
func (s *AsyncStream[T]) ForEach(ctx context.Context, fn func(T)) error {
	return s.drain(ctx, "for_each", func(v T) error { fn(v); return nil }, nil)
}

// FoldAsync folds the elements of s into an accumulator of a different type.
func FoldAsync[T, R any](ctx context.Context, s *AsyncStream[T], initial R, fn func(R, T) R) (R, error) {
	acc := initial
	err := s.drain(ctx, "reduce", func(v T) error { acc = fn(acc, v); return nil }, nil)
	if err != nil {
		var zero R
		return zero, err
	}
	return acc, nil
}

// IntoAsync drains s into the container built by c.
func IntoAsync[T, C any](ctx context.Context, s *AsyncStream[T], c Collector[T, C]) (C, error) {
	var out C
	b := c()
	err := s.drain(ctx, "collect", b.Add, func() error {
		var err error
		out, err = b.Build()
		return err
	})
	if err != nil {
		var zero C
		return zero, err
	}
	return out, nil
}

func (s *AsyncStream[T]) drain(ctx context.Context, terminal string, each func(T) error, final func() error) (err error) {
	ops, err := s.begin(terminal)
	if err != nil {
		return err
	}

	ev := TerminalEvent{Variant: VariantAsync, Terminal: terminal, Ops: len(ops), Start: s.now()}
	defer func() {
		ev.Err = err
		s.finish(ctx, ev)
	}()

	it, err := composeIter[T](&countingIter[T]{source: s.source, n: &ev.Pulled}, ops)
	if err != nil {
		_ = s.source.Close()
		return err
	}
	defer func() {
		if cerr := it.Close(); cerr != nil && err == nil {
			err = errors.SourceFailed("iterator close", cerr)
		}
	}()

	for {
		v, ok, nerr := it.Next(ctx)
		if nerr != nil {
			return sourceError(nerr)
		}
		if !ok {
			break
		}
		ev.Emitted++
		if err = each(v); err != nil {
			return err
		}
	}
	if final != nil {
		return final()
	}
	return nil
}

// sourceError wraps a failure from Next. Errors that are already
// AppErrors (for example from an adapter) keep their code.
func sourceError(err error) error {
	if errors.IsAppError(err) {
		return err
	}
	return errors.SourceFailed("source", err)
}
