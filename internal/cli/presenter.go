package cli

import (
	"fmt"
	"io"
	"sync"
	"text/tabwriter"
	"time"

	apperrors "github.com/agbru/primepipe/internal/errors"
	"github.com/agbru/primepipe/internal/format"
	"github.com/agbru/primepipe/internal/metrics"
	"github.com/agbru/primepipe/internal/orchestration"
	"github.com/agbru/primepipe/internal/progress"
	"github.com/agbru/primepipe/internal/ui"
)

// CLIProgressReporter implements orchestration.ProgressReporter with a
// spinner and progress bar.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress delegates to the package-level DisplayProgress.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numStrategies int, out io.Writer) {
	DisplayProgress(wg, progressChan, numStrategies, out)
}

// CLIResultPresenter implements the orchestration presentation interfaces
// for terminal output.
type CLIResultPresenter struct{}

var (
	_ orchestration.ResultPresenter   = CLIResultPresenter{}
	_ orchestration.DurationFormatter = CLIResultPresenter{}
	_ orchestration.ErrorHandler      = CLIResultPresenter{}
)

// PresentComparisonTable prints one row per strategy with its duration,
// prime count and status.
func (CLIResultPresenter) PresentComparisonTable(results []orchestration.RunResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "Strategy\tDuration\tPrimes\tStatus")
	for _, res := range results {
		duration := format.FormatExecutionDuration(res.Duration)
		if res.Duration == 0 {
			duration = "< 1µs"
		}
		count, status := "-", "Success"
		if res.Err != nil {
			status = fmt.Sprintf("Failure (%v)", res.Err)
		} else {
			count = format.FormatCount(uint64(len(res.Primes)))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", res.Name, duration, count, status)
	}
	tw.Flush()
}

// PresentResult delegates to DisplayResult.
func (CLIResultPresenter) PresentResult(result orchestration.RunResult, opts orchestration.PresentationOptions, out io.Writer) {
	DisplayResult(result, opts, out)
}

// FormatDuration implements orchestration.DurationFormatter.
func (CLIResultPresenter) FormatDuration(d time.Duration) string {
	return format.FormatExecutionDuration(d)
}

// HandleError implements orchestration.ErrorHandler.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleRunError(err, duration, out, ui.Colors{})
}

// DisplayMemoryStats prints the memory growth observed during a run.
func DisplayMemoryStats(delta, after metrics.MemorySnapshot, out io.Writer) {
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Heap in use:     %s bytes\n", format.FormatCount(after.HeapAlloc))
	fmt.Fprintf(out, "  Heap growth:     %s bytes\n", format.FormatCount(delta.HeapAlloc))
	fmt.Fprintf(out, "  GC cycles:       %d\n", delta.NumGC)
	fmt.Fprintf(out, "  Goroutines:      %d\n", after.Goroutines)
}
