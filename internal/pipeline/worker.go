package pipeline

import (
	"context"

	"github.com/agbru/primepipe/internal/logging"
	"github.com/agbru/primepipe/internal/sieve"
)

// progressStride is the number of candidates a worker checks between two
// progress reports.
const progressStride = 1024

// worker pulls candidates from the work queue until it sees Stop.
// All of its counters are local; the queues are its only shared state.
type worker struct {
	id       int
	logger   logging.Logger
	recorder Recorder
	tracker  *progressTracker
}

// run is the worker loop. It returns nil after emitting exactly one
// WorkerDone, or the context error if the run was aborted.
func (w *worker) run(ctx context.Context, work <-chan WorkItem, results chan<- ResultItem) error {
	stats := WorkerStats{ID: w.id, State: WorkerRunning}
	w.recorder.WorkerStarted()
	defer w.recorder.WorkerExited()
	w.logger.Debug("worker started", logging.Int("worker", w.id))

	var pending uint64
	for {
		var item WorkItem
		select {
		case <-ctx.Done():
			return ctx.Err()
		case item = <-work:
		}

		n, ok := item.Candidate()
		if !ok {
			w.tracker.add(pending)
			stats.State = WorkerSignaledDone
			select {
			case <-ctx.Done():
				return ctx.Err()
			case results <- WorkerDoneItem(stats):
			}
			w.recorder.WorkerFinished(stats)
			w.logger.Debug("worker done",
				logging.Int("worker", w.id),
				logging.Uint64("checked", stats.Checked),
				logging.Uint64("found", stats.Found))
			return nil
		}

		stats.Checked++
		if pending++; pending == progressStride {
			w.tracker.add(pending)
			pending = 0
		}
		if !sieve.IsPrime(n) {
			continue
		}
		stats.Found++
		select {
		case <-ctx.Done():
			return ctx.Err()
		case results <- PrimeItem(n, w.id):
		}
	}
}
