package agg

import (
	"testing"

	"github.com/huangsam/archivepulse/schema"
	"github.com/stretchr/testify/assert"
)

func TestRingWindowSize(t *testing.T) {
	assert.Equal(t, 3, NewRingWindow(3).Size())
	assert.Equal(t, 1, NewRingWindow(0).Size())
}

func TestRingWindowPushReportsBoundaries(t *testing.T) {
	w := NewRingWindow(3)

	// slots start as NoData, so the first evictions see equal neighbors
	assert.False(t, w.Push(schema.Status2xx))
	assert.False(t, w.Push(schema.Status4xx))
	// slots: [2xx 4xx NoData], oldest NoData, successor 2xx
	assert.True(t, w.Push(schema.Status4xx))
	// slots: [2xx 4xx 4xx], oldest 2xx, successor 4xx
	assert.True(t, w.Push(schema.Status4xx))
	// slots: [4xx 4xx 4xx]
	assert.False(t, w.Push(schema.Status4xx))
}
