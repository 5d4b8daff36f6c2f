package pipeline

import "fmt"

type workKind uint8

const (
	workCandidate workKind = iota
	workStop
)

// WorkItem is an entry of the work queue: either a candidate to test or a
// Stop marker telling the receiving worker to terminate.
type WorkItem struct {
	kind workKind
	n    uint64
}

// CandidateItem wraps n as a work item.
func CandidateItem(n uint64) WorkItem {
	return WorkItem{kind: workCandidate, n: n}
}

// StopItem returns the marker that ends one worker.
func StopItem() WorkItem {
	return WorkItem{kind: workStop}
}

// IsStop reports whether the item is a Stop marker.
func (w WorkItem) IsStop() bool { return w.kind == workStop }

// Candidate returns the candidate value; ok is false for Stop items.
func (w WorkItem) Candidate() (n uint64, ok bool) {
	return w.n, w.kind == workCandidate
}

func (w WorkItem) String() string {
	if w.IsStop() {
		return "Stop"
	}
	return fmt.Sprintf("Candidate(%d)", w.n)
}

type resultKind uint8

const (
	resultPrime resultKind = iota
	resultWorkerDone
)

// ResultItem is an entry of the result queue: either a confirmed prime or
// the completion signal of one worker.
type ResultItem struct {
	kind   resultKind
	prime  uint64
	worker int
	stats  WorkerStats
}

// PrimeItem reports prime n found by worker.
func PrimeItem(n uint64, worker int) ResultItem {
	return ResultItem{kind: resultPrime, prime: n, worker: worker}
}

// WorkerDoneItem reports that the worker described by stats has stopped
// consuming the work queue for good.
func WorkerDoneItem(stats WorkerStats) ResultItem {
	return ResultItem{kind: resultWorkerDone, worker: stats.ID, stats: stats}
}

// IsWorkerDone reports whether the item is a completion signal.
func (r ResultItem) IsWorkerDone() bool { return r.kind == resultWorkerDone }

// Prime returns the prime value; ok is false for completion signals.
func (r ResultItem) Prime() (n uint64, ok bool) {
	return r.prime, r.kind == resultPrime
}

// Worker returns the ID of the worker that produced the item.
func (r ResultItem) Worker() int { return r.worker }

// Stats returns the final worker statistics carried by a completion signal.
func (r ResultItem) Stats() WorkerStats { return r.stats }

func (r ResultItem) String() string {
	if r.IsWorkerDone() {
		return fmt.Sprintf("WorkerDone(%d)", r.worker)
	}
	return fmt.Sprintf("Prime(%d, worker %d)", r.prime, r.worker)
}
