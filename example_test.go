package chash_test

import (
	"fmt"
	"slices"

	"github.com/theflywheel/chash"
)

func ExampleMap_Entry() {
	m := chash.New[string, uint32](chash.Strings(nil))

	m.Entry("counter").OrInsert(3)
	*m.Entry("counter").OrInsert(10) *= 2
	fmt.Println(m.At("counter"))

	m.Entry("counter").AndModify(func(v *uint32) { *v++ }).OrInsert(42)
	fmt.Println(m.At("counter"))
	// Output:
	// 6
	// 7
}

func ExampleFromPairs() {
	m := chash.FromPairs(chash.Strings(nil), []chash.Pair[string, int]{
		{Key: "a", Value: 1},
		{Key: "b", Value: 2},
		{Key: "c", Value: 3},
	})

	v, ok := m.Get("a")
	fmt.Println(v, ok, m.Len())
	// Output: 1 true 3
}

func ExampleMap_Keys() {
	m := chash.New[int, string](chash.Integers[int](nil))
	for i := range 4 {
		m.Insert(i, fmt.Sprint(i))
	}

	// iteration order is unspecified
	fmt.Println(slices.Sorted(m.Keys()))
	// Output: [0 1 2 3]
}

func ExampleGetWith() {
	h := chash.Strings(nil)
	m := chash.New[string, int](h)
	m.Insert("alpha", 1)

	v, ok := chash.GetWith(m, []byte("alpha"), h.Bytes())
	fmt.Println(v, ok)
	// Output: 1 true
}
