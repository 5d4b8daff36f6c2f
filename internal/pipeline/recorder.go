package pipeline

// Recorder receives pipeline events for metrics collection. Implementations
// must be safe for concurrent use by every worker.
//
// Every WorkerStarted is paired with exactly one WorkerExited, whether the
// worker stopped on its Stop marker or on a context error. WorkerFinished
// fires only for workers that emitted WorkerDone.
type Recorder interface {
	WorkerStarted()
	WorkerFinished(stats WorkerStats)
	WorkerExited()
	RunFinished(report *Report, err error)
}

type nopRecorder struct{}

func (nopRecorder) WorkerStarted()             {}
func (nopRecorder) WorkerFinished(WorkerStats) {}
func (nopRecorder) WorkerExited()              {}
func (nopRecorder) RunFinished(*Report, error) {}
