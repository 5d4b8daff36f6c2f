package orchestration

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/primepipe/internal/progress"
	"github.com/agbru/primepipe/internal/sieve"
)

// RunResult is the outcome of one strategy run. It is the shared domain
// type between orchestration and presentation.
type RunResult struct {
	// Name is the registry key of the strategy (e.g. "queue").
	Name string
	// Description is the human-readable strategy label.
	Description string
	// Primes holds the primes found. It is nil if an error occurred.
	Primes []uint64
	// Duration is the wall-clock time of the run.
	Duration time.Duration
	// Err contains any error that occurred during the run.
	Err error
}

// PresentationOptions configures how results are presented to the user.
type PresentationOptions struct {
	Range      sieve.Range
	Workers    int
	Verbose    bool
	ShowPrimes bool
}

// ProgressReporter displays progress while strategies run. It decouples the
// orchestration layer from spinners, progress bars and dashboards.
type ProgressReporter interface {
	// DisplayProgress consumes progressChan until it is closed, then calls
	// wg.Done. It runs in its own goroutine.
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numStrategies int, out io.Writer)
}

// ProgressReporterFunc adapts a function to ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numStrategies int, out io.Writer)

// DisplayProgress calls f.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numStrategies int, out io.Writer) {
	f(wg, progressChan, numStrategies, out)
}

// NullProgressReporter drains the progress channel without output. It is
// used in quiet mode and in tests.
type NullProgressReporter struct{}

// DisplayProgress drains the channel.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter renders run results.
type ResultPresenter interface {
	// PresentComparisonTable displays the per-strategy summary table.
	PresentComparisonTable(results []RunResult, out io.Writer)
	// PresentResult displays the final, verified result.
	PresentResult(result RunResult, opts PresentationOptions, out io.Writer)
}

// DurationFormatter formats durations for display.
type DurationFormatter interface {
	FormatDuration(d time.Duration) string
}

// ErrorHandler maps run errors to exit codes.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}
