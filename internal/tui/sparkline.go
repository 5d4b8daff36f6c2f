package tui

import "strings"

// sparkBlocks are the eight block glyphs ▁▂▃▄▅▆▇█ used by RenderSparkline.
var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// RingBuffer keeps the most recent samples of a gauge, such as CPU usage.
type RingBuffer struct {
	data []float64
	next int
	full bool
}

// NewRingBuffer creates a buffer holding up to capacity samples.
func NewRingBuffer(capacity int) *RingBuffer {
	return &RingBuffer{data: make([]float64, max(capacity, 1))}
}

// Push stores v, evicting the oldest sample when full.
func (r *RingBuffer) Push(v float64) {
	r.data[r.next] = v
	r.next++
	if r.next == len(r.data) {
		r.next = 0
		r.full = true
	}
}

// Len returns the number of stored samples.
func (r *RingBuffer) Len() int {
	if r.full {
		return len(r.data)
	}
	return r.next
}

// Last returns the newest sample, or 0 when empty.
func (r *RingBuffer) Last() float64 {
	if r.Len() == 0 {
		return 0
	}
	return r.data[(r.next-1+len(r.data))%len(r.data)]
}

// Peak returns the largest stored sample.
func (r *RingBuffer) Peak() float64 {
	var peak float64
	for _, v := range r.Values() {
		peak = max(peak, v)
	}
	return peak
}

// Values returns the samples oldest first.
func (r *RingBuffer) Values() []float64 {
	if !r.full {
		return append([]float64(nil), r.data[:r.next]...)
	}
	out := make([]float64, 0, len(r.data))
	out = append(out, r.data[r.next:]...)
	return append(out, r.data[:r.next]...)
}

// Reset drops every sample.
func (r *RingBuffer) Reset() {
	r.next = 0
	r.full = false
}

// RenderSparkline draws percentages (0..100) as block glyphs, keeping the
// last width values. Values outside the range are clamped.
func RenderSparkline(values []float64, width int) string {
	if width <= 0 || len(values) == 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	var b strings.Builder
	top := len(sparkBlocks) - 1
	for _, v := range values {
		v = min(max(v, 0), 100)
		b.WriteRune(sparkBlocks[int(v/100*float64(top)+0.5)])
	}
	return b.String()
}
