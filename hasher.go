package chash

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/maphash"
	"sort"
	"strings"
	"unsafe"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/blake3"
)

// Hasher defines a hash function and an equality relation over keys of type K.
// Keys that compare equal must hash identically.
type Hasher[K any] interface {
	Hash(key K) uint64
	Equal(a, b K) bool
}

// Algorithm hashes a byte string to 64 bits.
type Algorithm func(data []byte) uint64

var (
	// XXHash is the default algorithm.
	XXHash Algorithm = xxhash.Sum64
	// Murmur3 is the 64-bit half of MurmurHash3 x64/128.
	Murmur3 Algorithm = murmur3.Sum64
	// Blake3 uses the first 8 bytes of the BLAKE3 digest.
	Blake3 Algorithm = blake3Sum64
	// FNV1a is 64-bit FNV-1a.
	FNV1a Algorithm = fnv1a64
)

var algorithms = map[string]Algorithm{
	"xxhash":  XXHash,
	"murmur3": Murmur3,
	"blake3":  Blake3,
	"fnv1a":   FNV1a,
}

// ParseAlgorithm returns the algorithm registered under name.
// The empty name selects XXHash.
func ParseAlgorithm(name string) (Algorithm, error) {
	if name == "" {
		return XXHash, nil
	}
	alg, ok := algorithms[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown hash algorithm %q (want one of %s)",
			name, strings.Join(AlgorithmNames(), ", "))
	}
	return alg, nil
}

// AlgorithmNames returns the registered algorithm names in sorted order.
func AlgorithmNames() []string {
	names := make([]string, 0, len(algorithms))
	for name := range algorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

const (
	offset64 = 14695981039346656037
	prime64  = 1099511628211
)

// fnv1a64 computes a 64-bit FNV-1a hash of data
func fnv1a64(data []byte) uint64 {
	hash := uint64(offset64)
	for _, b := range data {
		hash ^= uint64(b)
		hash *= prime64
	}
	return hash
}

func blake3Sum64(data []byte) uint64 {
	hasher := blake3.New()
	_, _ = hasher.Write(data)
	var buf [8]byte
	_, _ = hasher.Digest().Read(buf[:])
	return binary.LittleEndian.Uint64(buf[:])
}

func orDefault(alg Algorithm) Algorithm {
	if alg == nil {
		return XXHash
	}
	return alg
}

// stringBytes views s as a byte slice without copying. The result must not
// be modified.
func stringBytes(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// StringHasher hashes string keys with an Algorithm.
type StringHasher struct {
	alg Algorithm
}

// Strings returns a Hasher for string keys. A nil alg selects XXHash.
func Strings(alg Algorithm) StringHasher {
	return StringHasher{alg: orDefault(alg)}
}

func (h StringHasher) Hash(key string) uint64 { return h.alg(stringBytes(key)) }
func (h StringHasher) Equal(a, b string) bool { return a == b }

// Bytes returns the relation that looks up string keys by []byte queries
// without converting the query to a string.
func (h StringHasher) Bytes() Equivalent[string, []byte] {
	return stringByBytes{alg: h.alg}
}

type stringByBytes struct {
	alg Algorithm
}

func (r stringByBytes) HashQuery(q []byte) uint64        { return r.alg(q) }
func (r stringByBytes) Matches(q []byte, key string) bool { return string(q) == key }

// BytesHasher hashes []byte keys by content.
type BytesHasher struct {
	alg Algorithm
}

// Bytes returns a Hasher for []byte keys. A nil alg selects XXHash.
//
// Stored slices are not copied; callers must not modify a key after
// inserting it.
func Bytes(alg Algorithm) BytesHasher {
	return BytesHasher{alg: orDefault(alg)}
}

func (h BytesHasher) Hash(key []byte) uint64 { return h.alg(key) }
func (h BytesHasher) Equal(a, b []byte) bool { return bytes.Equal(a, b) }

// Strings returns the relation that looks up []byte keys by string queries.
func (h BytesHasher) Strings() Equivalent[[]byte, string] {
	return bytesByString{alg: h.alg}
}

type bytesByString struct {
	alg Algorithm
}

func (r bytesByString) HashQuery(q string) uint64        { return r.alg(stringBytes(q)) }
func (r bytesByString) Matches(q string, key []byte) bool { return string(key) == q }

// Integer is the set of integer key types accepted by Integers.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// IntegerHasher hashes integer keys as 8 little-endian bytes.
type IntegerHasher[K Integer] struct {
	alg Algorithm
}

// Integers returns a Hasher for integer keys. A nil alg selects XXHash.
func Integers[K Integer](alg Algorithm) IntegerHasher[K] {
	return IntegerHasher[K]{alg: orDefault(alg)}
}

func (h IntegerHasher[K]) Hash(key K) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(key))
	return h.alg(buf[:])
}

func (h IntegerHasher[K]) Equal(a, b K) bool { return a == b }

// ComparableHasher hashes any comparable key with hash/maphash.
//
// Each hasher gets its own random seed, so bucket placement differs between
// hasher instances and program runs.
type ComparableHasher[K comparable] struct {
	seed maphash.Seed
}

// Comparable returns a seeded Hasher for comparable keys.
func Comparable[K comparable]() ComparableHasher[K] {
	return ComparableHasher[K]{seed: maphash.MakeSeed()}
}

func (h ComparableHasher[K]) Hash(key K) uint64 { return maphash.Comparable(h.seed, key) }
func (h ComparableHasher[K]) Equal(a, b K) bool { return a == b }
