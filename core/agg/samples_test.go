package agg

import (
	"testing"

	"github.com/huangsam/archivepulse/schema"
	"github.com/stretchr/testify/assert"
)

func TestSampleCounter(t *testing.T) {
	c := NewSampleCounter()
	for _, ts := range []string{
		"20200101000000",
		"20200101000000", // same second
		"20200101000001", // new second
		"20200101000100", // new minute
		"20200102000000", // new day
		"20210102000000", // new year
	} {
		c.Observe(ts)
	}

	res := c.Result()
	assert.Equal(t, 6, res.Count)
	assert.Equal(t, 5, res.Samples[schema.PeriodSecond])
	assert.Equal(t, 4, res.Samples[schema.PeriodMinute])
	assert.Equal(t, 3, res.Samples[schema.PeriodHour])
	assert.Equal(t, 3, res.Samples[schema.PeriodDay])
	assert.Equal(t, 2, res.Samples[schema.PeriodMonth])
	assert.Equal(t, 2, res.Samples[schema.PeriodYear])
}

func TestSampleCounterEmpty(t *testing.T) {
	res := NewSampleCounter().Result()
	assert.Equal(t, 0, res.Count)
	assert.Len(t, res.Samples, len(schema.AllPeriods))
	for _, row := range res.Rows() {
		assert.Equal(t, 0, row.Samples)
	}
}

func TestSampleCounterShortTimestamp(t *testing.T) {
	c := NewSampleCounter()
	c.Observe("2020")
	c.Observe("2020")
	res := c.Result()
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, 1, res.Samples[schema.PeriodYear])
}
