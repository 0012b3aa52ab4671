package phasor

import "github.com/wavelab/fourierdraw/pkg/dsp/fourier"

// Trace is a fixed-capacity ring buffer of past chain-tip positions,
// kept only to draw the trailing path. Oldest entries are evicted
// first.
type Trace struct {
	buf   []fourier.Point
	head  int
	count int
}

func NewTrace(capacity int) *Trace {
	if capacity < 1 {
		capacity = 1
	}
	return &Trace{buf: make([]fourier.Point, capacity)}
}

func (t *Trace) Push(p fourier.Point) {
	t.buf[t.head] = p
	t.head = (t.head + 1) % len(t.buf)
	if t.count < len(t.buf) {
		t.count++
	}
}

// Points returns the retained positions, oldest first.
func (t *Trace) Points() []fourier.Point {
	out := make([]fourier.Point, 0, t.count)
	start := t.head - t.count
	if start < 0 {
		start += len(t.buf)
	}
	for i := 0; i < t.count; i++ {
		out = append(out, t.buf[(start+i)%len(t.buf)])
	}
	return out
}

func (t *Trace) Len() int { return t.count }

func (t *Trace) Reset() {
	t.head = 0
	t.count = 0
}
