// Package keygen generates benchmark keys.
package keygen

import (
	crand "crypto/rand"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Kind selects a key shape.
type Kind string

const (
	Sequential   Kind = "sequential"
	UUID         Kind = "uuid"
	ULID         Kind = "ulid"
	Alphanumeric Kind = "alphanumeric"
)

// alphanumericKeyLen is the length of Alphanumeric keys.
const alphanumericKeyLen = 24

// Kinds lists every supported kind.
func Kinds() []Kind {
	return []Kind{Sequential, UUID, ULID, Alphanumeric}
}

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(s))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown key kind %q", s)
}

// Generate returns n distinct keys of the given kind.
func Generate(kind Kind, n int) ([]string, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative key count %d", n)
	}

	keys := make([]string, 0, n)
	switch kind {
	case Sequential:
		for i := 0; i < n; i++ {
			keys = append(keys, fmt.Sprintf("key-%010d", i))
		}
	case ULID:
		entropy := ulid.Monotonic(crand.Reader, 0)
		now := ulid.Timestamp(time.Now())
		for i := 0; i < n; i++ {
			id, err := ulid.New(now, entropy)
			if err != nil {
				return nil, fmt.Errorf("generate ulid: %w", err)
			}
			keys = append(keys, strings.ToLower(id.String()))
		}
	case UUID:
		for i := 0; i < n; i++ {
			keys = append(keys, uuid.New().String())
		}
	case Alphanumeric:
		r := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(n)))
		seen := make(map[string]struct{}, n)
		for len(keys) < n {
			key := alphanumeric(r, alphanumericKeyLen)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	default:
		return nil, fmt.Errorf("unknown key kind %q", kind)
	}
	return keys, nil
}

const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func alphanumeric(r *rand.Rand, length int) string {
	var b strings.Builder
	b.Grow(length)
	for range length {
		b.WriteByte(charset[r.IntN(len(charset))])
	}
	return b.String()
}
