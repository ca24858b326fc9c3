package chash

import (
	"errors"
	"fmt"
	"iter"

	"github.com/hashicorp/go-hclog"
)

const initialBuckets = 1

var (
	// ErrKeyNotFound is the panic value (wrapped) of At and AtMut for an absent key.
	ErrKeyNotFound = errors.New("key not found")
	// ErrEntryConsumed is the panic value when an Entry is used twice.
	ErrEntryConsumed = errors.New("entry already consumed")
	// ErrConcurrentMutation is the panic value when an Entry or Iter is used
	// after the map's layout changed underneath it.
	ErrConcurrentMutation = errors.New("map modified while entry or iterator was live")
)

// Pair is a key and its value.
type Pair[K, V any] struct {
	Key   K
	Value V
}

// Map is a hash map using separate chaining.
//
// Maps must be created with New (or FromPairs, Collect): the zero Map has
// no Hasher and panics on its first insertion, though reads on it report
// absence.
//
// A Map is not safe for concurrent use. Pointers returned by GetMut, AtMut
// and the entry methods stay valid until the next call that changes the
// map's layout: inserting a new key, removing a key, or a resize.
type Map[K, V any] struct {
	buckets [][]Pair[K, V]
	count   int
	hasher  Hasher[K]
	logger  hclog.Logger
	resizes int
	gen     uint64
}

// Option configures a Map.
type Option func(*options)

type options struct {
	logger hclog.Logger
}

// WithLogger sets the logger used to trace resizes.
func WithLogger(logger hclog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New creates an empty map. No buckets are allocated until the first insert.
func New[K, V any](h Hasher[K], opts ...Option) *Map[K, V] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = hclog.NewNullLogger()
	}
	return &Map[K, V]{
		hasher: h,
		logger: o.logger,
	}
}

// FromPairs builds a map by inserting pairs in order. Later duplicates
// overwrite earlier ones.
func FromPairs[K, V any](h Hasher[K], pairs []Pair[K, V], opts ...Option) *Map[K, V] {
	m := New[K, V](h, opts...)
	for _, p := range pairs {
		m.Insert(p.Key, p.Value)
	}
	return m
}

// Collect builds a map from a sequence of key-value pairs, with the same
// overwrite rule as FromPairs.
func Collect[K, V any](h Hasher[K], seq iter.Seq2[K, V], opts ...Option) *Map[K, V] {
	m := New[K, V](h, opts...)
	for k, v := range seq {
		m.Insert(k, v)
	}
	return m
}

// Hasher returns the map's hasher.
func (m *Map[K, V]) Hasher() Hasher[K] {
	return m.hasher
}

// bucketIndex maps a hash to a bucket. The bucket array must not be empty.
func (m *Map[K, V]) bucketIndex(hash uint64) int {
	return int(hash % uint64(len(m.buckets)))
}

// maybeResize grows the bucket array before an insertion when it is empty
// or holds more than 3/4 as many pairs as buckets.
func (m *Map[K, V]) maybeResize() {
	if len(m.buckets) == 0 || m.count > 3*len(m.buckets)/4 {
		m.resize()
	}
}

func (m *Map[K, V]) resize() {
	target := initialBuckets
	if n := len(m.buckets); n > 0 {
		target = 2 * n
	}

	m.logger.Trace("resizing buckets", "count", m.count, "from", len(m.buckets), "to", target)

	buckets := make([][]Pair[K, V], target)
	for _, bucket := range m.buckets {
		for _, p := range bucket {
			i := int(m.hasher.Hash(p.Key) % uint64(target))
			buckets[i] = append(buckets[i], p)
		}
	}

	m.buckets = buckets
	m.resizes++
	m.gen++
}

// find returns the bucket for key and the position of key in it, or -1.
func (m *Map[K, V]) find(key K) (index, pos int) {
	return findWith[K, V, K](m, key, self[K]{h: m.hasher})
}

// Insert stores value under key. If the key was present its previous value
// is returned with true.
func (m *Map[K, V]) Insert(key K, value V) (V, bool) {
	m.maybeResize()
	index, pos := m.find(key)
	if pos >= 0 {
		p := &m.buckets[index][pos]
		prev := p.Value
		p.Value = value
		return prev, true
	}
	m.push(index, key, value)
	var zero V
	return zero, false
}

// push appends a new pair to bucket index and returns a pointer to its value.
func (m *Map[K, V]) push(index int, key K, value V) *V {
	m.buckets[index] = append(m.buckets[index], Pair[K, V]{Key: key, Value: value})
	m.count++
	m.gen++
	return &m.buckets[index][len(m.buckets[index])-1].Value
}

// Get returns the value stored under key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	return GetWith[K, V, K](m, key, self[K]{h: m.hasher})
}

// GetMut returns a pointer to the value stored under key, or nil.
func (m *Map[K, V]) GetMut(key K) *V {
	return GetMutWith[K, V, K](m, key, self[K]{h: m.hasher})
}

// ContainsKey reports whether key is present.
func (m *Map[K, V]) ContainsKey(key K) bool {
	_, pos := m.find(key)
	return pos >= 0
}

// Remove deletes key and returns its value. The last pair of the bucket is
// moved into the freed position, so the bucket's order changes.
func (m *Map[K, V]) Remove(key K) (V, bool) {
	return RemoveWith[K, V, K](m, key, self[K]{h: m.hasher})
}

func (m *Map[K, V]) removeAt(index, pos int) Pair[K, V] {
	bucket := m.buckets[index]
	last := len(bucket) - 1
	removed := bucket[pos]
	bucket[pos] = bucket[last]
	bucket[last] = Pair[K, V]{}
	m.buckets[index] = bucket[:last]
	m.count--
	m.gen++
	return removed
}

// At returns the value stored under key. It panics if key is absent; use Get
// when absence is possible.
func (m *Map[K, V]) At(key K) V {
	return *m.AtMut(key)
}

// AtMut returns a pointer to the value stored under key, so that
// *m.AtMut(k) = v updates it in place. It panics if key is absent.
func (m *Map[K, V]) AtMut(key K) *V {
	p := m.GetMut(key)
	if p == nil {
		panic(fmt.Errorf("%w: %v", ErrKeyNotFound, key))
	}
	return p
}

// Len returns the number of stored pairs.
func (m *Map[K, V]) Len() int {
	return m.count
}

// IsEmpty reports whether the map holds no pairs.
func (m *Map[K, V]) IsEmpty() bool {
	return m.count == 0
}
