package chash

// Entry is a view into a single key of a Map, obtained from Map.Entry. It is
// either occupied or vacant.
//
// An Entry is single-use: the Or* methods consume it and a second call
// panics with ErrEntryConsumed. Any change to the map's layout made outside
// the entry invalidates it, and further use panics with ErrConcurrentMutation.
type Entry[K, V any] struct {
	occupied *OccupiedEntry[K, V]
	vacant   *VacantEntry[K, V]
	consumed bool
}

// OccupiedEntry refers to a stored pair.
type OccupiedEntry[K, V any] struct {
	m     *Map[K, V]
	index int
	pos   int
	gen   uint64
}

// VacantEntry holds a key that is not in the map and the bucket it will be
// stored in.
type VacantEntry[K, V any] struct {
	m        *Map[K, V]
	key      K
	index    int
	gen      uint64
	consumed bool
}

// Entry looks key up for in-place manipulation. The bucket array is grown
// first if needed, so a vacant entry's bucket stays valid until it is used.
func (m *Map[K, V]) Entry(key K) *Entry[K, V] {
	m.maybeResize()
	index, pos := m.find(key)
	if pos >= 0 {
		return &Entry[K, V]{occupied: &OccupiedEntry[K, V]{m: m, index: index, pos: pos, gen: m.gen}}
	}
	return &Entry[K, V]{vacant: &VacantEntry[K, V]{m: m, key: key, index: index, gen: m.gen}}
}

func (m *Map[K, V]) checkGen(gen uint64) {
	if m.gen != gen {
		panic(ErrConcurrentMutation)
	}
}

// Occupied returns the occupied variant.
func (e *Entry[K, V]) Occupied() (*OccupiedEntry[K, V], bool) {
	return e.occupied, e.occupied != nil
}

// Vacant returns the vacant variant.
func (e *Entry[K, V]) Vacant() (*VacantEntry[K, V], bool) {
	return e.vacant, e.vacant != nil
}

// Key returns the entry's key: the stored key when occupied, the looked-up
// key when vacant.
func (e *Entry[K, V]) Key() K {
	if e.occupied != nil {
		return e.occupied.Key()
	}
	return e.vacant.Key()
}

func (e *Entry[K, V]) consume() {
	if e.consumed {
		panic(ErrEntryConsumed)
	}
	e.consumed = true
}

// AndModify calls f on the stored value if the entry is occupied and returns
// the entry for further use.
func (e *Entry[K, V]) AndModify(f func(v *V)) *Entry[K, V] {
	if e.consumed {
		panic(ErrEntryConsumed)
	}
	if e.occupied != nil {
		f(e.occupied.Value())
	}
	return e
}

// OrInsert returns the stored value, inserting value first if vacant.
func (e *Entry[K, V]) OrInsert(value V) *V {
	e.consume()
	if e.occupied != nil {
		return e.occupied.Value()
	}
	return e.vacant.Insert(value)
}

// OrInsertWith is OrInsert with a lazily computed value. produce is only
// called when the entry is vacant.
func (e *Entry[K, V]) OrInsertWith(produce func() V) *V {
	e.consume()
	if e.occupied != nil {
		return e.occupied.Value()
	}
	return e.vacant.Insert(produce())
}

// OrInsertWithKey is OrInsertWith where produce receives the key.
func (e *Entry[K, V]) OrInsertWithKey(produce func(key K) V) *V {
	e.consume()
	if e.occupied != nil {
		return e.occupied.Value()
	}
	return e.vacant.Insert(produce(e.vacant.key))
}

// OrDefault is OrInsertWith using the zero value of V.
func (e *Entry[K, V]) OrDefault() *V {
	return e.OrInsertWith(func() V {
		var zero V
		return zero
	})
}

// Key returns the stored key.
func (o *OccupiedEntry[K, V]) Key() K {
	o.m.checkGen(o.gen)
	return o.m.buckets[o.index][o.pos].Key
}

// Get returns a copy of the stored value.
func (o *OccupiedEntry[K, V]) Get() V {
	return *o.Value()
}

// Value returns a pointer to the stored value.
func (o *OccupiedEntry[K, V]) Value() *V {
	o.m.checkGen(o.gen)
	return &o.m.buckets[o.index][o.pos].Value
}

// Insert replaces the stored value and returns the old one.
func (o *OccupiedEntry[K, V]) Insert(value V) V {
	p := o.Value()
	old := *p
	*p = value
	return old
}

// Key returns the key that was looked up.
func (v *VacantEntry[K, V]) Key() K {
	return v.key
}

// Insert stores value under the entry's key and returns a pointer to it.
// It performs exactly one insertion; calling it again panics.
func (v *VacantEntry[K, V]) Insert(value V) *V {
	if v.consumed {
		panic(ErrEntryConsumed)
	}
	v.m.checkGen(v.gen)
	v.consumed = true
	return v.m.push(v.index, v.key, value)
}
