package cli

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/primepipe/internal/config"
	"github.com/agbru/primepipe/internal/format"
	"github.com/agbru/primepipe/internal/strategy"
	"github.com/agbru/primepipe/internal/sysmon"
	"github.com/agbru/primepipe/internal/ui"
)

// PrintExecutionConfig prints the range, the parallelism settings and a
// snapshot of the host before a run.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Scanning %s[%d, %d)%s (%s candidates) with a timeout of %s%s%s.\n",
		ui.ColorMagenta(), cfg.Lo, cfg.Hi, ui.ColorReset(), format.FormatCount(cfg.RangeLen()),
		ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	fmt.Fprintf(out, "Workers: %s%d%s, queue depth: %s%d%s.\n",
		ui.ColorCyan(), cfg.Workers, ui.ColorReset(), ui.ColorCyan(), cfg.QueueDepth, ui.ColorReset())

	host := sysmon.DescribeHost(context.Background())
	stats := sysmon.Sample()
	fmt.Fprintf(out, "Environment: %s%d%s logical processors (%d physical), Go %s%s%s, CPU %.0f%%, memory %.0f%%.\n",
		ui.ColorCyan(), host.LogicalCores, ui.ColorReset(), host.PhysicalCores,
		ui.ColorCyan(), runtime.Version(), ui.ColorReset(),
		stats.CPUPercent, stats.MemPercent)
	if host.CPUModel != "" {
		fmt.Fprintf(out, "Processor: %s%s%s\n", ui.ColorBlue(), host.CPUModel, ui.ColorReset())
	}
}

// PrintExecutionMode prints whether a single strategy runs or several are
// compared.
func PrintExecutionMode(strategies []strategy.Strategy, out io.Writer) {
	var modeDesc string
	switch len(strategies) {
	case 0:
		modeDesc = "no strategy selected"
	case 1:
		modeDesc = fmt.Sprintf("Single run with the %s%s%s strategy",
			ui.ColorGreen(), strategies[0].Description(), ui.ColorReset())
	default:
		modeDesc = fmt.Sprintf("Parallel comparison of %d strategies", len(strategies))
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
