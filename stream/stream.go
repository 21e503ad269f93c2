package stream

import (
	"context"
	"iter"
	"slices"

	"github.com/kbukum/streamkit/errors"
)

// Stream is a chainable, single-use pipeline over a synchronous sequence.
//
// Map, Filter and Skip record operations and return the same handle; nothing
// runs until a terminal call (Collect, Reduce, ReduceFrom, Count, ForEach, or
// the package functions Into and Fold). The terminal call composes the
// operations in registration order, drains the source once, and closes the
// handle. Any later call reports ErrConsumed.
//
// A Stream must not be shared between goroutines.
type Stream[T any] struct {
	handle[T]
	source iter.Seq[T]
}

// FromSeq wraps seq. A nil seq is treated as empty.
func FromSeq[T any](seq iter.Seq[T]) *Stream[T] {
	if seq == nil {
		seq = func(func(T) bool) {}
	}
	return &Stream[T]{handle: newHandle[T](), source: seq}
}

// FromSlice streams the elements of items in order. The slice is not copied.
func FromSlice[T any](items []T) *Stream[T] {
	return FromSeq(slices.Values(items))
}

// Of streams the given values: none gives an empty stream, several give that sequence.
func Of[T any](values ...T) *Stream[T] {
	return FromSlice(values)
}

// Single streams exactly one value.
func Single[T any](v T) *Stream[T] {
	return FromSlice([]T{v})
}

// Empty returns a stream with no elements.
func Empty[T any]() *Stream[T] {
	return FromSeq[T](nil)
}

// Range streams the integers in [start, stop).
func Range(start, stop int) *Stream[int] {
	return FromSeq(func(yield func(int) bool) {
		for i := start; i < stop; i++ {
			if !yield(i) {
				return
			}
		}
	})
}

// With applies options to the stream.
func (s *Stream[T]) With(opts ...Option) *Stream[T] {
	s.apply(opts)
	return s
}

// Map records a transformation of every element.
func (s *Stream[T]) Map(fn func(T) T) *Stream[T] {
	s.push(MapOp(fn))
	return s
}

// Filter records a predicate; only elements for which fn returns true are kept.
func (s *Stream[T]) Filter(fn func(T) bool) *Stream[T] {
	s.push(FilterOp(fn))
	return s
}

// Skip records dropping the first n elements that reach this stage.
func (s *Stream[T]) Skip(n int) *Stream[T] {
	s.push(SkipOp[T](n))
	return s
}

// MapTo consumes s and returns a new stream of fn applied to each element of
// s after its pending operations. Evaluation stays lazy.
func MapTo[T, U any](s *Stream[T], fn func(T) U) *Stream[U] {
	out := &Stream[U]{handle: newHandle[U]()}
	s.inherit(&out.opts)

	ops, err := s.begin("map_to")
	if err == nil {
		var seq iter.Seq[T]
		if seq, err = composeSeq(s.source, ops); err == nil {
			out.source = mapSeq(seq, fn)
			return out
		}
	}
	out.state = stateClosed
	out.err = err
	return out
}

// --- Terminals ---

// Collect returns the elements in order.
func (s *Stream[T]) Collect() ([]T, error) {
	return Into(s, ToSlice[T]())
}

// Reduce folds the elements left to right, seeded with the first element.
// It fails with ErrEmptyReduction when there is no element.
func (s *Stream[T]) Reduce(fn func(T, T) T) (T, error) {
	var acc T
	seeded := false
	err := s.drain("reduce",
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

// ReduceFrom folds the elements left to right starting from initial. An empty
// stream yields initial.
func (s *Stream[T]) ReduceFrom(fn func(T, T) T, initial T) (T, error) {
	return Fold(s, initial, fn)
}

// Count returns the number of elements.
func (s *Stream[T]) Count() (int, error) {
	n := 0
	err := s.drain("count", func(T) error { n++; return nil }, nil)
	return n, err
}

// ForEach calls fn for every element.
func (s *Stream[T]) ForEach(fn func(T)) error {
	return s.drain("for_each", func(v T) error { fn(v); return nil }, nil)
}

// Fold folds the elements of s into an accumulator of a different type.
func Fold[T, R any](s *Stream[T], initial R, fn func(R, T) R) (R, error) {
	acc := initial
	err := s.drain("reduce", func(v T) error { acc = fn(acc, v); return nil }, nil)
	if err != nil {
		var zero R
		return zero, err
	}
	return acc, nil
}

// Into drains s into the container built by c.
func Into[T, C any](s *Stream[T], c Collector[T, C]) (C, error) {
	var out C
	b := c()
	err := s.drain("collect", b.Add, func() error {
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

// drain is the single terminal path: close, compose, pull every element
// through each, then run final. Stops at the first error.
func (s *Stream[T]) drain(terminal string, each func(T) error, final func() error) (err error) {
	ops, err := s.begin(terminal)
	if err != nil {
		return err
	}

	ev := TerminalEvent{Variant: VariantSync, Terminal: terminal, Ops: len(ops), Start: s.now()}
	defer func() {
		ev.Err = err
		s.finish(context.Background(), ev)
	}()

	seq, err := composeSeq(countSeq(s.source, &ev.Pulled), ops)
	if err != nil {
		return err
	}
	for v := range seq {
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
