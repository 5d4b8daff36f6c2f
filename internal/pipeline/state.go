package pipeline

// WorkerState is the lifecycle of one worker as seen by the Coordinator.
type WorkerState int32

const (
	// WorkerRunning means the worker is consuming the work queue.
	WorkerRunning WorkerState = iota
	// WorkerSignaledDone means the worker saw Stop and emitted WorkerDone.
	WorkerSignaledDone
	// WorkerTerminated means the worker goroutine has returned.
	WorkerTerminated
)

func (s WorkerState) String() string {
	switch s {
	case WorkerRunning:
		return "RUNNING"
	case WorkerSignaledDone:
		return "SIGNALED_DONE"
	case WorkerTerminated:
		return "TERMINATED"
	}
	return "UNKNOWN"
}

// Phase is the pipeline-level lifecycle.
type Phase int32

const (
	// PhaseIdle means no run has started.
	PhaseIdle Phase = iota
	// PhaseFilling means candidates and Stop markers are still being enqueued.
	PhaseFilling
	// PhaseDraining means the work queue holds all of its items and the
	// Coordinator is waiting for the remaining WorkerDone signals.
	PhaseDraining
	// PhaseComplete means every worker signaled completion.
	PhaseComplete
	// PhaseFailed means the run ended with an error.
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "IDLE"
	case PhaseFilling:
		return "FILLING"
	case PhaseDraining:
		return "DRAINING"
	case PhaseComplete:
		return "COMPLETE"
	case PhaseFailed:
		return "FAILED"
	}
	return "UNKNOWN"
}

// WorkerStats is the worker-local bookkeeping reported with WorkerDone.
type WorkerStats struct {
	ID      int
	Checked uint64
	Found   uint64
	State   WorkerState
}
