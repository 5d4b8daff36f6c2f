package cli

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/agbru/primepipe/internal/format"
	"github.com/agbru/primepipe/internal/kernels"
	"github.com/agbru/primepipe/internal/ui"
)

// DisplayKernelComparison prints the serial and parallel runs of a kernel
// side by side with their error against the reference value.
func DisplayKernelComparison(cmp kernels.Comparison, out io.Writer) {
	fmt.Fprintf(out, "\n--- Kernel %s%s%s over %s samples ---\n",
		ui.ColorMagenta(), cmp.Kernel, ui.ColorReset(), format.FormatCount(cmp.Size))

	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "Run\tWorkers\tValue\tAbs. error\tTime\n")
	for _, row := range []struct {
		label string
		m     kernels.Measurement
	}{
		{"serial", cmp.Serial},
		{"parallel", cmp.Parallel},
	} {
		fmt.Fprintf(tw, "%s\t%d\t%.8f\t%.2e\t%s\n",
			row.label, row.m.Workers, row.m.Value, math.Abs(row.m.Value-cmp.Reference),
			format.FormatExecutionDuration(row.m.Duration))
	}
	tw.Flush()

	fmt.Fprintf(out, "Reference value: %.8f\n", cmp.Reference)
	if s := cmp.Speedup(); s > 0 {
		fmt.Fprintf(out, "Speed-up: %s%.2fx%s\n", ui.ColorGreen(), s, ui.ColorReset())
	}
}

// FormatQuietKernel returns the parallel value alone, for scripting.
func FormatQuietKernel(cmp kernels.Comparison) string {
	return fmt.Sprintf("%.10f", cmp.Parallel.Value)
}
