package agg

import "github.com/huangsam/archivepulse/schema"

// WindowSize is the number of most recent events the windowed chaos looks at.
const WindowSize = 1000

// RingWindow is a fixed-capacity circular buffer of status classes.
// Every slot starts out as schema.NoData.
type RingWindow struct {
	slots []schema.StatusClass
	pos   int
}

// NewRingWindow creates a window holding size classes.
func NewRingWindow(size int) *RingWindow {
	if size < 1 {
		size = 1
	}
	return &RingWindow{slots: make([]schema.StatusClass, size)}
}

// Size returns the capacity of the window.
func (w *RingWindow) Size() int {
	return len(w.slots)
}

// Push overwrites the oldest slot with s. It reports whether a run boundary left
// the window, meaning the evicted class differed from the class that followed it.
func (w *RingWindow) Push(s schema.StatusClass) bool {
	next := (w.pos + 1) % len(w.slots)
	boundary := w.slots[w.pos] != w.slots[next]
	w.slots[w.pos] = s
	w.pos = next
	return boundary
}
