package stream

import (
	"context"

	"github.com/kbukum/streamkit/errors"
)

// composeIter stacks one iterator stage per op on top of src. Every stage
// awaits its upstream's Next before producing, so exactly one pull is in
// flight and side effects run in source order.
func composeIter[T any](src Iterator[T], ops []Op[T]) (Iterator[T], error) {
	it := src
	for _, op := range ops {
		switch op.Kind {
		case OpMap:
			it = &mapIter[T, T]{source: it, fn: op.mapFn}
		case OpFilter:
			it = &filterIter[T]{source: it, fn: op.filterFn}
		case OpSkip:
			it = &skipIter[T]{source: it, skip: op.skipFn}
		default:
			return nil, errors.UnsupportedOperation(op.Kind.String())
		}
	}
	return it, nil
}

type mapIter[I, O any] struct {
	source Iterator[I]
	fn     func(I) O
}

func (it *mapIter[I, O]) Next(ctx context.Context) (O, bool, error) {
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		var zero O
		return zero, false, err
	}
	return it.fn(val), true, nil
}

func (it *mapIter[I, O]) Close() error { return it.source.Close() }

type filterIter[T any] struct {
	source Iterator[T]
	fn     func(T) bool
}

func (it *filterIter[T]) Next(ctx context.Context) (T, bool, error) {
	for {
		val, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			return val, false, err
		}
		if it.fn(val) {
			return val, true, nil
		}
	}
}

func (it *filterIter[T]) Close() error { return it.source.Close() }

// skipIter checks the skip predicate against the index of every pulled element.
type skipIter[T any] struct {
	source Iterator[T]
	skip   func(int) bool
	index  int
}

func (it *skipIter[T]) Next(ctx context.Context) (T, bool, error) {
	for {
		val, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			return val, false, err
		}
		i := it.index
		it.index++
		if !it.skip(i) {
			return val, true, nil
		}
	}
}

func (it *skipIter[T]) Close() error { return it.source.Close() }
