package main

import (
	"fmt"
	"log"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/theflywheel/chash"
)

func main() {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "example",
		Level:  hclog.Trace,
		Output: os.Stderr,
	})

	// Create a map keyed by strings, hashed with xxHash
	m := chash.New[string, uint64](chash.Strings(chash.XXHash), chash.WithLogger(logger))

	fmt.Println("Map created successfully")

	// Insert some data
	for i := uint64(0); i < 10; i++ {
		m.Insert(fmt.Sprintf("key-%d", i), i*100)
	}

	fmt.Printf("Inserted %d key-value pairs\n", m.Len())

	// Retrieve and display some values
	for i := 0; i < 15; i += 2 {
		key := fmt.Sprintf("key-%d", i)
		if value, found := m.Get(key); found {
			fmt.Printf("Key %s => Value %d\n", key, value)
		} else {
			fmt.Printf("Key %s not found\n", key)
		}
	}

	// Update a value
	prev, replaced := m.Insert("key-2", 999)
	if !replaced {
		log.Fatalf("Expected key-2 to be present")
	}
	fmt.Printf("Updated key-2 from %d => Value %d\n", prev, m.At("key-2"))

	// Double a counter through the entry API
	*m.Entry("counter").OrInsert(3) *= 2
	fmt.Printf("counter => %d\n", m.At("counter"))

	stats := m.Stats()
	fmt.Printf("Buckets: %d, resizes: %d, longest chain: %d\n",
		stats.Buckets, stats.Resizes, stats.LongestChain)

	fmt.Println("Example completed successfully")
}
