/*
Package chash provides a generic hash map using separate chaining.

Map stores each key in the bucket selected by its hash modulo the bucket
count. Colliding keys share a bucket, which is a small slice scanned
linearly. The bucket array doubles whenever the map holds more than three
quarters as many pairs as buckets, which keeps chains short.

Basic usage:

	import "github.com/theflywheel/chash"

	m := chash.New[string, int](chash.Strings(nil))

	// Insert returns the previous value when the key was present
	m.Insert("apples", 3)
	prev, replaced := m.Insert("apples", 5)

	// Update in place through an entry
	*m.Entry("pears").OrInsert(0) += 2

	// Lookups report absence instead of panicking
	if v, ok := m.Get("apples"); ok {
		fmt.Println("apples:", v)
	}

	// At panics for absent keys; use it only when presence is certain
	*m.AtMut("pears") = 7

	for k, v := range m.All() {
		fmt.Println(k, v)
	}

Features:

  - Buckets are allocated lazily on the first insert
  - Automatic growth when the load factor exceeds 0.75; the map never shrinks
  - Entry API (OrInsert, OrInsertWith, OrDefault, AndModify) that hashes once
  - Lookups by a different query type through an Equivalent relation, e.g.
    []byte queries against string keys
  - Pluggable hash algorithms: xxHash (default), MurmurHash3, BLAKE3, FNV-1a

Implementation Details:

Removal swaps the removed pair with the last pair of its bucket, so bucket
order changes and iteration order is never guaranteed. Resizing rehashes every
pair into a new bucket array in one step.

A Map is not safe for concurrent use. Entries and iterators check that the
map's layout has not changed since they were created and panic if it has.
*/
package chash
