package chash

import "iter"

// Iter walks the pairs of a Map bucket by bucket. Order is unspecified and
// changes after removals and resizes. An Iter is not restartable, and
// changing the map's layout while it is live makes Next panic with
// ErrConcurrentMutation.
type Iter[K, V any] struct {
	m      *Map[K, V]
	gen    uint64
	bucket int
	at     int
	cur    *Pair[K, V]
}

// Iter returns an iterator positioned before the first pair.
func (m *Map[K, V]) Iter() *Iter[K, V] {
	return &Iter[K, V]{m: m, gen: m.gen}
}

// Next advances to the next pair and reports whether there is one.
// It must be called before the first Key or Value.
func (it *Iter[K, V]) Next() bool {
	it.m.checkGen(it.gen)
	for it.bucket < len(it.m.buckets) {
		bucket := it.m.buckets[it.bucket]
		if it.at < len(bucket) {
			it.cur = &bucket[it.at]
			it.at++
			return true
		}
		it.bucket++
		it.at = 0
	}
	it.cur = nil
	return false
}

// Key returns the current key.
func (it *Iter[K, V]) Key() K {
	return it.cur.Key
}

// Value returns the current value.
func (it *Iter[K, V]) Value() V {
	return it.cur.Value
}

// All returns an iterator over all key-value pairs.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		it := m.Iter()
		for it.Next() {
			if !yield(it.cur.Key, it.cur.Value) {
				return
			}
		}
	}
}

// Keys returns an iterator over all keys.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		it := m.Iter()
		for it.Next() {
			if !yield(it.cur.Key) {
				return
			}
		}
	}
}

// Values returns an iterator over all values.
func (m *Map[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		it := m.Iter()
		for it.Next() {
			if !yield(it.cur.Value) {
				return
			}
		}
	}
}

// Pairs returns a snapshot of all pairs.
func (m *Map[K, V]) Pairs() []Pair[K, V] {
	pairs := make([]Pair[K, V], 0, m.count)
	for _, bucket := range m.buckets {
		pairs = append(pairs, bucket...)
	}
	return pairs
}
