package stream

import (
	"iter"

	"github.com/kbukum/streamkit/errors"
)

// composeSeq folds ops over src in registration order. The result is lazy:
// nothing is pulled from src until the returned sequence is ranged over, and
// each element travels the whole chain before the next one is pulled.
func composeSeq[T any](src iter.Seq[T], ops []Op[T]) (iter.Seq[T], error) {
	seq := src
	for _, op := range ops {
		switch op.Kind {
		case OpMap:
			seq = mapSeq(seq, op.mapFn)
		case OpFilter:
			seq = filterSeq(seq, op.filterFn)
		case OpSkip:
			seq = skipSeq(seq, op.skipFn)
		default:
			return nil, errors.UnsupportedOperation(op.Kind.String())
		}
	}
	return seq, nil
}

func mapSeq[T, U any](src iter.Seq[T], fn func(T) U) iter.Seq[U] {
	return func(yield func(U) bool) {
		for v := range src {
			if !yield(fn(v)) {
				return
			}
		}
	}
}

func filterSeq[T any](src iter.Seq[T], fn func(T) bool) iter.Seq[T] {
	return func(yield func(T) bool) {
		for v := range src {
			if fn(v) && !yield(v) {
				return
			}
		}
	}
}

// skipSeq still pulls every upstream element; the index is counted per pass.
func skipSeq[T any](src iter.Seq[T], skip func(int) bool) iter.Seq[T] {
	return func(yield func(T) bool) {
		i := 0
		for v := range src {
			drop := skip(i)
			i++
			if drop {
				continue
			}
			if !yield(v) {
				return
			}
		}
	}
}

func countSeq[T any](src iter.Seq[T], n *int) iter.Seq[T] {
	return func(yield func(T) bool) {
		for v := range src {
			*n++
			if !yield(v) {
				return
			}
		}
	}
}
