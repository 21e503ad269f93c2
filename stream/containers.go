package stream

import (
	"cmp"
	"iter"
	"maps"
	"slices"
)

// Pair is a key/value element, the shape map collectors expect.
type Pair[K, V any] struct {
	Key   K
	Value V
}

// PairOf builds a Pair.
func PairOf[K, V any](k K, v V) Pair[K, V] {
	return Pair[K, V]{Key: k, Value: v}
}

// Tuple is an immutable, ordered view of collected elements.
type Tuple[T any] struct {
	items []T
}

// Len returns the number of elements.
func (t Tuple[T]) Len() int { return len(t.items) }

// At returns the element at index i. It panics if i is out of range.
func (t Tuple[T]) At(i int) T { return t.items[i] }

// All iterates over index/element pairs.
func (t Tuple[T]) All() iter.Seq2[int, T] { return slices.All(t.items) }

// Slice returns a copy of the elements.
func (t Tuple[T]) Slice() []T { return slices.Clone(t.items) }

// Set holds distinct elements; iteration order is unspecified.
type Set[T comparable] map[T]struct{}

// Contains reports whether v is in the set.
func (s Set[T]) Contains(v T) bool {
	_, ok := s[v]
	return ok
}

// Len returns the number of distinct elements.
func (s Set[T]) Len() int { return len(s) }

// Slice returns the elements in unspecified order.
func (s Set[T]) Slice() []T { return slices.Collect(maps.Keys(s)) }

// OrderedMap is a map that remembers the order in which keys were first seen.
// Setting an existing key replaces its value but keeps its position.
type OrderedMap[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

func newOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{values: make(map[K]V)}
}

func (m *OrderedMap[K, V]) set(k K, v V) {
	if _, ok := m.values[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.values[k] = v
}

// Get returns the value stored for k.
func (m *OrderedMap[K, V]) Get(k K) (V, bool) {
	v, ok := m.values[k]
	return v, ok
}

// Len returns the number of keys.
func (m *OrderedMap[K, V]) Len() int { return len(m.keys) }

// Keys returns the keys in first-seen order.
func (m *OrderedMap[K, V]) Keys() []K { return slices.Clone(m.keys) }

// All iterates in first-seen key order.
func (m *OrderedMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// Map returns a plain map copy.
func (m *OrderedMap[K, V]) Map() map[K]V { return maps.Clone(m.values) }

// Counter is a multiset: it counts occurrences of each distinct element and
// remembers first-seen order for ties.
type Counter[T comparable] struct {
	counts map[T]int
	order  []T
	total  int
}

func newCounter[T comparable]() *Counter[T] {
	return &Counter[T]{counts: make(map[T]int)}
}

func (c *Counter[T]) add(v T) {
	if _, ok := c.counts[v]; !ok {
		c.order = append(c.order, v)
	}
	c.counts[v]++
	c.total++
}

// Count returns how many times v occurred.
func (c *Counter[T]) Count(v T) int { return c.counts[v] }

// Len returns the number of distinct elements.
func (c *Counter[T]) Len() int { return len(c.order) }

// Total returns the number of elements counted.
func (c *Counter[T]) Total() int { return c.total }

// All iterates over element/count pairs in first-seen order.
func (c *Counter[T]) All() iter.Seq2[T, int] {
	return func(yield func(T, int) bool) {
		for _, v := range c.order {
			if !yield(v, c.counts[v]) {
				return
			}
		}
	}
}

// MostCommon returns the n most frequent elements, highest count first; ties
// keep first-seen order. n <= 0 returns every element.
func (c *Counter[T]) MostCommon(n int) []Pair[T, int] {
	out := make([]Pair[T, int], 0, len(c.order))
	for _, v := range c.order {
		out = append(out, PairOf(v, c.counts[v]))
	}
	slices.SortStableFunc(out, func(a, b Pair[T, int]) int {
		return cmp.Compare(b.Value, a.Value)
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// Map returns a plain element to count map.
func (c *Counter[T]) Map() map[T]int { return maps.Clone(c.counts) }
