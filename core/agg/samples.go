package agg

import "github.com/huangsam/archivepulse/schema"

// SampleCounter counts how many distinct periods of each granularity
// an ordered stream of timestamps touches.
type SampleCounter struct {
	count   int
	samples map[schema.Period]int
	prev    map[schema.Period]string
}

// NewSampleCounter creates an empty counter.
func NewSampleCounter() *SampleCounter {
	return &SampleCounter{
		samples: make(map[schema.Period]int, len(schema.AllPeriods)),
		prev:    make(map[schema.Period]string, len(schema.AllPeriods)),
	}
}

// Observe feeds one timestamp. Periods are checked finest first and the walk stops
// at the first period whose prefix matches the previous timestamp, since every
// coarser prefix matches too.
func (c *SampleCounter) Observe(timestamp string) {
	c.count++
	for _, ap := range schema.AllPeriods {
		prefix := timestamp[:min(ap.Prefix, len(timestamp))]
		if prev, ok := c.prev[ap.Period]; ok && prev == prefix {
			break
		}
		c.prev[ap.Period] = prefix
		c.samples[ap.Period]++
	}
}

// Result returns the total timestamp count and per-period sample counts.
func (c *SampleCounter) Result() schema.PeriodicSamples {
	samples := make(map[schema.Period]int, len(schema.AllPeriods))
	for _, ap := range schema.AllPeriods {
		samples[ap.Period] = c.samples[ap.Period]
	}
	return schema.PeriodicSamples{Count: c.count, Samples: samples}
}
