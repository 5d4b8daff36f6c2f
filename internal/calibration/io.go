package calibration

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/agbru/primepipe/internal/config"
	"github.com/agbru/primepipe/internal/format"
	"github.com/agbru/primepipe/internal/ui"
)

// printCalibrationResults prints one row per worker count with its
// duration and the speed-up relative to a single worker.
func printCalibrationResults(out io.Writer, results []calibrationResult, bestWorkers int) {
	var baseline float64
	for _, r := range results {
		if r.Workers == 1 && r.Err == nil {
			baseline = r.Duration.Seconds()
		}
	}

	fmt.Fprintf(out, "\n--- Calibration Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "Workers\tExecution Time\tSpeed-up\tPrimes\t")
	for _, r := range results {
		duration, speedup, primes := ui.ColorRed()+"N/A"+ui.ColorReset(), "-", "-"
		if r.Err == nil {
			duration = format.FormatExecutionDuration(r.Duration)
			if r.Duration == 0 {
				duration = "< 1µs"
			}
			if baseline > 0 && r.Duration > 0 {
				speedup = fmt.Sprintf("%.2fx", baseline/r.Duration.Seconds())
			}
			primes = format.FormatCount(uint64(r.Primes))
		}
		highlight := ""
		if r.Workers == bestWorkers && r.Err == nil {
			highlight = ui.ColorGreen() + "(Optimal)" + ui.ColorReset()
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", r.Workers, duration, speedup, primes, highlight)
	}
	tw.Flush()
}

// printCalibrationOutput prints the one-line auto-calibration outcome.
func printCalibrationOutput(cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "%sAuto-calibration%s: workers=%s%d%s\n",
		ui.ColorGreen(), ui.ColorReset(), ui.ColorYellow(), cfg.Workers, ui.ColorReset())
}
