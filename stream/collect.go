package stream

import (
	"reflect"

	"github.com/kbukum/streamkit/errors"
)

// Builder accumulates the elements of one terminal call into a container.
type Builder[T, C any] interface {
	Add(v T) error
	Build() (C, error)
}

// Collector creates a fresh Builder for every terminal call. Collectors are
// shared by Into and IntoAsync.
type Collector[T, C any] func() Builder[T, C]

type funcBuilder[T, C any] struct {
	items []T
	build func([]T) (C, error)
}

func (b *funcBuilder[T, C]) Add(v T) error {
	b.items = append(b.items, v)
	return nil
}

func (b *funcBuilder[T, C]) Build() (C, error) { return b.build(b.items) }

// CollectorFunc builds a container from the ordered elements with a
// caller-supplied constructor.
func CollectorFunc[T, C any](build func(items []T) (C, error)) Collector[T, C] {
	return func() Builder[T, C] { return &funcBuilder[T, C]{build: build} }
}

// ToSlice keeps order and duplicates.
func ToSlice[T any]() Collector[T, []T] {
	return CollectorFunc(func(items []T) ([]T, error) {
		if items == nil {
			items = []T{}
		}
		return items, nil
	})
}

// ToTuple is ToSlice behind an immutable view.
func ToTuple[T any]() Collector[T, Tuple[T]] {
	return CollectorFunc(func(items []T) (Tuple[T], error) {
		return Tuple[T]{items: items}, nil
	})
}

type setBuilder[T comparable] struct{ set Set[T] }

func (b *setBuilder[T]) Add(v T) error {
	b.set[v] = struct{}{}
	return nil
}

func (b *setBuilder[T]) Build() (Set[T], error) { return b.set, nil }

// ToSet collapses duplicates.
func ToSet[T comparable]() Collector[T, Set[T]] {
	return func() Builder[T, Set[T]] { return &setBuilder[T]{set: make(Set[T])} }
}

type mapBuilder[K comparable, V any] struct{ m map[K]V }

func (b *mapBuilder[K, V]) Add(p Pair[K, V]) error {
	b.m[p.Key] = p.Value
	return nil
}

func (b *mapBuilder[K, V]) Build() (map[K]V, error) { return b.m, nil }

// ToMap builds a map from pairs; later duplicate keys overwrite earlier ones.
func ToMap[K comparable, V any]() Collector[Pair[K, V], map[K]V] {
	return func() Builder[Pair[K, V], map[K]V] { return &mapBuilder[K, V]{m: make(map[K]V)} }
}

type orderedMapBuilder[K comparable, V any] struct{ m *OrderedMap[K, V] }

func (b *orderedMapBuilder[K, V]) Add(p Pair[K, V]) error {
	b.m.set(p.Key, p.Value)
	return nil
}

func (b *orderedMapBuilder[K, V]) Build() (*OrderedMap[K, V], error) { return b.m, nil }

// ToOrderedMap is ToMap that also keeps first-seen key order.
func ToOrderedMap[K comparable, V any]() Collector[Pair[K, V], *OrderedMap[K, V]] {
	return func() Builder[Pair[K, V], *OrderedMap[K, V]] {
		return &orderedMapBuilder[K, V]{m: newOrderedMap[K, V]()}
	}
}

type untypedMapBuilder[K comparable, V any] struct {
	m     map[K]V
	index int
}

func (b *untypedMapBuilder[K, V]) Add(v any) error {
	i := b.index
	b.index++
	k, val, ok := asPair[K, V](v)
	if !ok {
		return errors.ShapeMismatch(i, pairShape[K, V](), v)
	}
	b.m[k] = val
	return nil
}

func (b *untypedMapBuilder[K, V]) Build() (map[K]V, error) { return b.m, nil }

// ToMapOf builds a map from untyped elements. Each element must be a
// Pair[K, V], a [2]any or a two-element []any whose entries have types K and
// V; anything else fails with ErrShapeMismatch.
func ToMapOf[K comparable, V any]() Collector[any, map[K]V] {
	return func() Builder[any, map[K]V] { return &untypedMapBuilder[K, V]{m: make(map[K]V)} }
}

type counterBuilder[T comparable] struct{ c *Counter[T] }

func (b *counterBuilder[T]) Add(v T) error {
	b.c.add(v)
	return nil
}

func (b *counterBuilder[T]) Build() (*Counter[T], error) { return b.c, nil }

// ToCounter counts occurrences of each distinct element.
func ToCounter[T comparable]() Collector[T, *Counter[T]] {
	return func() Builder[T, *Counter[T]] { return &counterBuilder[T]{c: newCounter[T]()} }
}

func asPair[K comparable, V any](v any) (K, V, bool) {
	var (
		zk K
		zv V
	)
	switch p := v.(type) {
	case Pair[K, V]:
		return p.Key, p.Value, true
	case [2]any:
		return pairFrom[K, V](p[0], p[1])
	case []any:
		if len(p) != 2 {
			return zk, zv, false
		}
		return pairFrom[K, V](p[0], p[1])
	}
	return zk, zv, false
}

func pairFrom[K comparable, V any](k, v any) (K, V, bool) {
	key, ok := pairPart[K](k)
	if !ok {
		var zv V
		return key, zv, false
	}
	val, ok := pairPart[V](v)
	return key, val, ok
}

// pairPart converts one side of a pair. nil converts to the zero value of
// any nilable type.
func pairPart[T any](v any) (T, bool) {
	if v == nil {
		var zero T
		switch reflect.TypeFor[T]().Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
			return zero, true
		}
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

func pairShape[K, V any]() string {
	return "key/value pair of " + reflect.TypeFor[K]().String() + " and " + reflect.TypeFor[V]().String()
}
