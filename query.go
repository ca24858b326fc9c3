package chash

// Equivalent relates a query type Q to stored keys of type K so a map can be
// searched without building a K. HashQuery must return, for every key that
// Matches reports equal, the same value the map's Hasher returns for that key.
type Equivalent[K, Q any] interface {
	HashQuery(q Q) uint64
	Matches(q Q, key K) bool
}

// GetWith returns the value stored under the key matching q.
func GetWith[K, V, Q any](m *Map[K, V], q Q, eq Equivalent[K, Q]) (V, bool) {
	if p := GetMutWith(m, q, eq); p != nil {
		return *p, true
	}
	var zero V
	return zero, false
}

// GetMutWith returns a pointer to the value stored under the key matching q,
// or nil. The pointer is valid until the next call that changes the map's
// layout.
func GetMutWith[K, V, Q any](m *Map[K, V], q Q, eq Equivalent[K, Q]) *V {
	index, pos := findWith(m, q, eq)
	if pos < 0 {
		return nil
	}
	return &m.buckets[index][pos].Value
}

// ContainsKeyWith reports whether a key matching q is present.
func ContainsKeyWith[K, V, Q any](m *Map[K, V], q Q, eq Equivalent[K, Q]) bool {
	_, pos := findWith(m, q, eq)
	return pos >= 0
}

// RemoveWith removes the key matching q and returns its value.
func RemoveWith[K, V, Q any](m *Map[K, V], q Q, eq Equivalent[K, Q]) (V, bool) {
	index, pos := findWith(m, q, eq)
	if pos < 0 {
		var zero V
		return zero, false
	}
	return m.removeAt(index, pos).Value, true
}

// findWith locates q. It returns pos -1 when absent, including when the map
// has no buckets yet.
func findWith[K, V, Q any](m *Map[K, V], q Q, eq Equivalent[K, Q]) (index, pos int) {
	if len(m.buckets) == 0 {
		return 0, -1
	}
	index = m.bucketIndex(eq.HashQuery(q))
	for i := range m.buckets[index] {
		if eq.Matches(q, m.buckets[index][i].Key) {
			return index, i
		}
	}
	return index, -1
}

// self is the identity relation of a map's own Hasher.
type self[K any] struct {
	h Hasher[K]
}

func (s self[K]) HashQuery(q K) uint64     { return s.h.Hash(q) }
func (s self[K]) Matches(q K, key K) bool { return s.h.Equal(key, q) }
