package strategy

import (
	"context"
	"runtime"

	"github.com/agbru/primepipe/internal/logging"
	"github.com/agbru/primepipe/internal/pipeline"
	"github.com/agbru/primepipe/internal/progress"
	"github.com/agbru/primepipe/internal/sieve"
)

// Strategy finds every prime of a range.
type Strategy interface {
	// Name returns the registry key of the strategy.
	Name() string
	// Description returns a human-readable label used in reports.
	Description() string
	// FindPrimes returns the primes of rng. Progress updates for index are
	// sent on progressChan without blocking; progressChan may be nil.
	FindPrimes(ctx context.Context, progressChan chan<- progress.ProgressUpdate, index int, rng sieve.Range, opts Options) ([]uint64, error)
}

// Options tunes a single FindPrimes call.
type Options struct {
	// Workers is the degree of parallelism. Zero selects runtime.NumCPU();
	// negative values are rejected.
	Workers int
	// QueueDepth sizes the pipeline queues. Zero selects the pipeline default.
	QueueDepth int
	// Sorted requests primes in ascending order.
	Sorted bool
	// Logger receives worker lifecycle events. Nil disables logging.
	Logger logging.Logger
	// Recorder receives pipeline metrics. Nil disables recording.
	Recorder pipeline.Recorder
}

func (o Options) workers() int {
	if o.Workers != 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}

func (o Options) logger() logging.Logger {
	if o.Logger == nil {
		return logging.Nop()
	}
	return o.Logger
}

// reportFraction adapts a done/total counter to a fraction callback.
func reportFraction(cb progress.ProgressCallback) pipeline.ProgressFunc {
	return func(done, total uint64) {
		if total == 0 {
			return
		}
		cb(float64(done) / float64(total))
	}
}
