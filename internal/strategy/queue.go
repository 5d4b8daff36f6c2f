package strategy

import (
	"context"

	"github.com/agbru/primepipe/internal/pipeline"
	"github.com/agbru/primepipe/internal/progress"
	"github.com/agbru/primepipe/internal/sieve"
)

// QueueStrategy runs the bounded producer/consumer pipeline: a coordinator
// feeds a shared work queue and W workers pull candidates from it.
type QueueStrategy struct{}

// Name implements Strategy.
func (QueueStrategy) Name() string { return "queue" }

// Description implements Strategy.
func (QueueStrategy) Description() string { return "Work Queue (producer/consumer)" }

// FindPrimes implements Strategy.
func (QueueStrategy) FindPrimes(ctx context.Context, progressChan chan<- progress.ProgressUpdate, index int, rng sieve.Range, opts Options) ([]uint64, error) {
	report, err := pipeline.New(
		pipeline.WithWorkers(opts.workers()),
		pipeline.WithQueueDepth(opts.QueueDepth),
		pipeline.WithSorted(opts.Sorted),
		pipeline.WithLogger(opts.logger()),
		pipeline.WithRecorder(opts.Recorder),
		pipeline.WithProgress(reportFraction(progress.NonBlockingSender(progressChan, index))),
	).Run(ctx, rng)
	if err != nil {
		return nil, err
	}
	return report.Primes, nil
}
