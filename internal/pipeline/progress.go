package pipeline

import "sync/atomic"

// ProgressFunc receives the number of candidates checked so far and the
// total. It is called concurrently from several workers.
type ProgressFunc func(done, total uint64)

type progressTracker struct {
	done  atomic.Uint64
	total uint64
	fn    ProgressFunc
}

func newProgressTracker(total uint64, fn ProgressFunc) *progressTracker {
	return &progressTracker{total: total, fn: fn}
}

func (t *progressTracker) add(n uint64) {
	if t == nil || n == 0 {
		return
	}
	done := t.done.Add(n)
	if t.fn != nil {
		t.fn(done, t.total)
	}
}
