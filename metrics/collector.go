// Package metrics exports chash map statistics as Prometheus metrics.
//
// A Collector reads Stats from its source on every scrape, so it always
// reports the current layout without any bookkeeping in the map itself.
// The source map is not safe for concurrent use: scrape only while no other
// goroutine mutates it, or wrap the source in a function that takes a lock.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/theflywheel/chash"
)

const namespace = "chash"

// StatsSource is anything that reports map statistics, such as *chash.Map.
type StatsSource interface {
	Stats() chash.Stats
}

// StatsFunc adapts a function to StatsSource.
type StatsFunc func() chash.Stats

func (f StatsFunc) Stats() chash.Stats { return f() }

// Collector implements prometheus.Collector for one map.
type Collector struct {
	name string
	src  StatsSource

	entries      *prometheus.Desc
	buckets      *prometheus.Desc
	emptyBuckets *prometheus.Desc
	longestChain *prometheus.Desc
	loadFactor   *prometheus.Desc
	resizes      *prometheus.Desc
}

// NewCollector returns a collector labelling its metrics with map=name.
func NewCollector(name string, src StatsSource) *Collector {
	labels := prometheus.Labels{"map": name}
	desc := func(metric, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", metric), help, nil, labels)
	}

	return &Collector{
		name:         name,
		src:          src,
		entries:      desc("entries", "Number of key-value pairs stored"),
		buckets:      desc("buckets", "Number of allocated buckets"),
		emptyBuckets: desc("empty_buckets", "Number of buckets holding no pairs"),
		longestChain: desc("longest_chain", "Length of the longest bucket"),
		loadFactor:   desc("load_factor", "Pairs per bucket"),
		resizes:      desc("resizes_total", "Number of bucket array resizes"),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entries
	ch <- c.buckets
	ch <- c.emptyBuckets
	ch <- c.longestChain
	ch <- c.loadFactor
	ch <- c.resizes
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(s.Len))
	ch <- prometheus.MustNewConstMetric(c.buckets, prometheus.GaugeValue, float64(s.Buckets))
	ch <- prometheus.MustNewConstMetric(c.emptyBuckets, prometheus.GaugeValue, float64(s.EmptyBuckets))
	ch <- prometheus.MustNewConstMetric(c.longestChain, prometheus.GaugeValue, float64(s.LongestChain))
	ch <- prometheus.MustNewConstMetric(c.loadFactor, prometheus.GaugeValue, s.LoadFactor)
	ch <- prometheus.MustNewConstMetric(c.resizes, prometheus.CounterValue, float64(s.Resizes))
}

// WriteTextfile registers the collectors in a fresh registry and writes
// their current values to path in the Prometheus text format.
func WriteTextfile(path string, collectors ...prometheus.Collector) error {
	registry := prometheus.NewRegistry()
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return fmt.Errorf("register collector: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
