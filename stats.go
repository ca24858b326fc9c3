package chash

// Stats describes a map's bucket layout.
type Stats struct {
	Len          int
	Buckets      int
	EmptyBuckets int
	LongestChain int
	Resizes      int
	LoadFactor   float64
}

// Stats walks the bucket array and returns layout statistics.
func (m *Map[K, V]) Stats() Stats {
	s := Stats{
		Len:     m.count,
		Buckets: len(m.buckets),
		Resizes: m.resizes,
	}
	for _, bucket := range m.buckets {
		if len(bucket) == 0 {
			s.EmptyBuckets++
		}
		if len(bucket) > s.LongestChain {
			s.LongestChain = len(bucket)
		}
	}
	if s.Buckets > 0 {
		s.LoadFactor = float64(s.Len) / float64(s.Buckets)
	}
	return s
}
