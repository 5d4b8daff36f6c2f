package pipeline

import (
	"runtime"

	"github.com/agbru/primepipe/internal/logging"
)

// DefaultQueueDepthPerWorker sizes the queues when WithQueueDepth is not used.
const DefaultQueueDepthPerWorker = 64

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithWorkers sets the fixed worker count W. Values below 1 are rejected by Run.
func WithWorkers(n int) Option {
	return func(c *Coordinator) { c.workers = n }
}

// WithQueueDepth sets the capacity of both queues. Zero or negative values
// select DefaultQueueDepthPerWorker slots per worker.
func WithQueueDepth(n int) Option {
	return func(c *Coordinator) { c.queueDepth = n }
}

// WithSorted makes Run return primes in ascending order.
func WithSorted(sorted bool) Option {
	return func(c *Coordinator) { c.sorted = sorted }
}

// WithLogger sets the logger used for worker lifecycle events.
func WithLogger(l logging.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Coordinator) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(c *Coordinator) { c.progress = fn }
}

func defaultCoordinator() *Coordinator {
	return &Coordinator{
		workers:  runtime.NumCPU(),
		logger:   logging.Nop(),
		recorder: nopRecorder{},
	}
}
