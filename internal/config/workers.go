package config

import "runtime"

// Worker resolution chain (highest priority first):
//   1. CLI flags (-workers, -queue-depth)
//   2. Environment variables (PRIMEPIPE_WORKERS, ...)
//   3. Cached calibration profile (~/.primepipe_calibration.json)
//   4. Adaptive hardware estimation (this file)

// QueueDepthPerWorker is the number of queue slots reserved per worker when
// the queue depth is chosen adaptively.
const QueueDepthPerWorker = 256

// ApplyAdaptiveDefaults fills Workers and QueueDepth when they were left at
// zero, preserving explicit user values.
func ApplyAdaptiveDefaults(cfg AppConfig) AppConfig {
	if cfg.Workers == 0 {
		cfg.Workers = EstimateOptimalWorkers()
	}
	if cfg.QueueDepth == 0 {
		cfg.QueueDepth = EstimateQueueDepth(cfg.Workers)
	}
	return cfg
}

// EstimateOptimalWorkers returns the worker count used when nothing else is
// configured. Trial division is CPU-bound, so one worker per logical CPU.
func EstimateOptimalWorkers() int {
	return max(runtime.NumCPU(), 1)
}

// EstimateQueueDepth sizes the queues so that every worker has a few
// hundred candidates buffered ahead of it.
func EstimateQueueDepth(workers int) int {
	if workers < 1 {
		workers = 1
	}
	return workers * QueueDepthPerWorker
}
