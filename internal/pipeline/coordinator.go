package pipeline

import (
	"context"
	"slices"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/primepipe/internal/errors"
	"github.com/agbru/primepipe/internal/logging"
	"github.com/agbru/primepipe/internal/sieve"
	"github.com/agbru/primepipe/internal/telemetry"
)

// Report is the outcome of one pipeline run.
type Report struct {
	// Range is the candidate interval that was scanned.
	Range sieve.Range
	// Primes holds the confirmed primes in arrival order, or ascending
	// order when the Coordinator was built WithSorted(true).
	Primes []uint64
	// FinishedWorkers is the number of WorkerDone signals observed.
	FinishedWorkers int
	// Workers holds the final statistics of every worker, indexed by ID.
	Workers []WorkerStats
	// Duration is the wall-clock time of the run.
	Duration time.Duration
}

// Coordinator runs the producer/consumer pipeline. A Coordinator may be
// reused for several runs; Phase reflects the most recent one.
type Coordinator struct {
	workers    int
	queueDepth int
	sorted     bool
	logger     logging.Logger
	recorder   Recorder
	progress   ProgressFunc

	phase atomic.Int32
}

// New creates a Coordinator. Without WithWorkers it launches one worker per
// logical CPU.
func New(opts ...Option) *Coordinator {
	c := defaultCoordinator()
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Workers returns the configured worker count W.
func (c *Coordinator) Workers() int { return c.workers }

// Phase returns the lifecycle phase of the most recent run.
func (c *Coordinator) Phase() Phase { return Phase(c.phase.Load()) }

func (c *Coordinator) setPhase(p Phase) { c.phase.Store(int32(p)) }

func (c *Coordinator) capacity() int {
	if c.queueDepth > 0 {
		return c.queueDepth
	}
	return c.workers * DefaultQueueDepthPerWorker
}

// Run finds every prime in rng.
//
// Malformed input (an invalid range or fewer than one worker) is rejected
// with an apperrors.ValidationError before any queue is created. A broken
// termination invariant yields an apperrors.InvariantError. Cancelling ctx
// aborts the run and returns the context error.
func (c *Coordinator) Run(ctx context.Context, rng sieve.Range) (report *Report, err error) {
	if c.workers < 1 {
		return nil, apperrors.ValidationError{Field: "workers", Message: "must be at least 1"}
	}
	if err := rng.Validate(); err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartSpan(ctx, "pipeline.Run",
		attribute.String("range", rng.String()),
		attribute.Int("workers", c.workers),
		attribute.Int("queue_depth", c.capacity()))
	start := time.Now()
	defer func() {
		if report != nil {
			span.SetAttributes(attribute.Int("primes", len(report.Primes)))
		}
		c.recorder.RunFinished(report, err)
		telemetry.EndSpan(span, err)
	}()

	c.setPhase(PhaseFilling)
	work := make(chan WorkItem, c.capacity())
	results := make(chan ResultItem, c.capacity())
	tracker := newProgressTracker(rng.Len(), c.progress)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	for id := 0; id < c.workers; id++ {
		w := &worker{id: id, logger: c.logger, recorder: c.recorder, tracker: tracker}
		g.Go(func() error { return w.run(gctx, work, results) })
	}
	g.Go(func() error {
		if err := c.fill(gctx, rng, work); err != nil {
			return err
		}
		c.setPhase(PhaseDraining)
		return nil
	})

	report, err = c.drain(gctx, rng, results)
	if err != nil {
		cancel()
	}
	waitErr := g.Wait()
	if err == nil && waitErr != nil {
		err = waitErr
	}
	if err != nil {
		c.setPhase(PhaseFailed)
		c.logger.Error("pipeline run failed", err, logging.String("range", rng.String()))
		return nil, err
	}

	for i := range report.Workers {
		report.Workers[i].State = WorkerTerminated
	}
	if c.sorted {
		slices.Sort(report.Primes)
	}
	report.Duration = time.Since(start)
	c.setPhase(PhaseComplete)
	c.logger.Info("pipeline run complete",
		logging.String("range", rng.String()),
		logging.Int("workers", c.workers),
		logging.Int("primes", len(report.Primes)),
		logging.Duration("duration", report.Duration))
	return report, nil
}

// fill enqueues every candidate in ascending order, then one Stop per worker.
func (c *Coordinator) fill(ctx context.Context, rng sieve.Range, work chan<- WorkItem) error {
	for n := rng.Lo; n < rng.Hi; n++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case work <- CandidateItem(n):
		}
	}
	for i := 0; i < c.workers; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case work <- StopItem():
		}
	}
	return nil
}

// drain consumes the result queue until W distinct WorkerDone signals have
// been seen, then checks the termination invariants.
func (c *Coordinator) drain(ctx context.Context, rng sieve.Range, results <-chan ResultItem) (*Report, error) {
	report := &Report{
		Range:   rng,
		Workers: make([]WorkerStats, c.workers),
	}
	signaled := make([]bool, c.workers)

	for report.FinishedWorkers < c.workers {
		var item ResultItem
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case item = <-results:
		}

		if p, ok := item.Prime(); ok {
			report.Primes = append(report.Primes, p)
			continue
		}
		id := item.Worker()
		if id < 0 || id >= c.workers {
			return nil, apperrors.InvariantError{Invariant: "worker id within [0, W)", Expected: c.workers - 1, Observed: id}
		}
		if signaled[id] {
			return nil, apperrors.InvariantError{Invariant: "one WorkerDone per worker", Expected: 1, Observed: 2}
		}
		signaled[id] = true
		report.Workers[id] = item.Stats()
		report.FinishedWorkers++
	}

	return report, c.checkInvariants(report, rng, results)
}

func (c *Coordinator) checkInvariants(report *Report, rng sieve.Range, results <-chan ResultItem) error {
	if report.FinishedWorkers != c.workers {
		return apperrors.InvariantError{Invariant: "finished workers == W", Expected: c.workers, Observed: report.FinishedWorkers}
	}
	// Every worker sends WorkerDone last, so nothing may follow the final one.
	if n := len(results); n != 0 {
		return apperrors.InvariantError{Invariant: "result queue empty after drain", Expected: 0, Observed: n}
	}
	var checked, found uint64
	for _, w := range report.Workers {
		checked += w.Checked
		found += w.Found
	}
	if checked != rng.Len() {
		return apperrors.InvariantError{Invariant: "every candidate checked once", Expected: int(rng.Len()), Observed: int(checked)}
	}
	if found != uint64(len(report.Primes)) {
		return apperrors.InvariantError{Invariant: "reported primes == received primes", Expected: int(found), Observed: len(report.Primes)}
	}
	return nil
}
