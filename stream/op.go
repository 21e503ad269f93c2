package stream

import "fmt"

// OpKind identifies a recorded pending operation.
type OpKind uint8

const (
	OpMap OpKind = iota + 1
	OpFilter
	OpSkip
)

func (k OpKind) String() string {
	switch k {
	case OpMap:
		return "map"
	case OpFilter:
		return "filter"
	case OpSkip:
		return "skip"
	default:
		return fmt.Sprintf("OpKind(%d)", uint8(k))
	}
}

// Op is one pending operation. Exactly one callback field is set, matching Kind.
type Op[T any] struct {
	Kind OpKind

	mapFn    func(T) T
	filterFn func(T) bool
	// skipFn reports whether the element at the given upstream index is dropped.
	skipFn func(int) bool
}

// MapOp records a transformation.
func MapOp[T any](fn func(T) T) Op[T] {
	return Op[T]{Kind: OpMap, mapFn: fn}
}

// FilterOp records a predicate; elements for which fn is true are kept.
func FilterOp[T any](fn func(T) bool) Op[T] {
	return Op[T]{Kind: OpFilter, filterFn: fn}
}

// SkipOp records dropping the first n upstream elements. n is fixed here;
// n <= 0 produces a predicate that never skips.
func SkipOp[T any](n int) Op[T] {
	if n <= 0 {
		return Op[T]{Kind: OpSkip, skipFn: func(int) bool { return false }}
	}
	return Op[T]{Kind: OpSkip, skipFn: func(i int) bool { return i < n }}
}
