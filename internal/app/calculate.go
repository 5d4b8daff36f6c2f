package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/agbru/primepipe/internal/cli"
	apperrors "github.com/agbru/primepipe/internal/errors"
	"github.com/agbru/primepipe/internal/kernels"
	"github.com/agbru/primepipe/internal/metrics"
	"github.com/agbru/primepipe/internal/orchestration"
	"github.com/agbru/primepipe/internal/sieve"
	"github.com/agbru/primepipe/internal/strategy"
	"github.com/agbru/primepipe/internal/ui"
)

// runCalculate runs the selected strategies over the configured range,
// verifies that they agree and prints the result.
func (a *Application) runCalculate(ctx context.Context, out io.Writer) int {
	ctx, cancel := a.lifecycle(ctx)
	defer cancel()

	rng, err := sieve.NewRange(a.Config.Lo, a.Config.Hi)
	if err != nil {
		return apperrors.HandleRunError(err, 0, a.ErrWriter, ui.Colors{})
	}
	strategies := orchestration.GetStrategiesToRun(a.Config.Strategy, a.Factory)

	var reporter orchestration.ProgressReporter = cli.CLIProgressReporter{}
	progressOut := out
	if a.Config.Quiet {
		reporter = orchestration.NullProgressReporter{}
		progressOut = io.Discard
	} else {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(strategies, out)
	}

	collector := metrics.NewMemoryCollector()
	before := collector.Snapshot()

	opts := strategy.Options{
		Workers:    a.Config.Workers,
		QueueDepth: a.Config.QueueDepth,
		Sorted:     a.Config.Sorted,
		Logger:     a.logger("pipeline"),
	}
	results := orchestration.ExecuteStrategies(ctx, strategies, rng, opts, reporter, progressOut)

	after := collector.Snapshot()
	outputCfg := cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
		ShowPrimes: a.Config.ShowPrimes,
	}
	presOpts := orchestration.PresentationOptions{
		Range:      rng,
		Workers:    a.Config.Workers,
		Verbose:    a.Config.Verbose,
		ShowPrimes: a.Config.ShowPrimes,
	}

	if a.Config.Quiet {
		return a.presentQuiet(results, presOpts, outputCfg, out)
	}

	exitCode := orchestration.AnalyzeComparisonResults(results, presOpts, cli.CLIResultPresenter{}, cli.CLIResultPresenter{}, out)
	if exitCode != apperrors.ExitSuccess {
		return exitCode
	}
	if best := findBestResult(results); best != nil && outputCfg.OutputFile != "" {
		if err := cli.WritePrimesToFile(*best, presOpts, outputCfg); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error saving primes: %v\n", err)
			return apperrors.ExitErrorGeneric
		}
		fmt.Fprintf(out, "\n%s✓ Primes saved to: %s%s%s\n",
			ui.ColorGreen(), ui.ColorCyan(), outputCfg.OutputFile, ui.ColorReset())
	}
	if a.Config.Verbose {
		cli.DisplayMemoryStats(after.Delta(before), after, out)
	}
	return exitCode
}

// presentQuiet verifies results silently, then prints only the count (or
// the primes) of the fastest run. Failures are reported on ErrWriter.
func (a *Application) presentQuiet(results []orchestration.RunResult, presOpts orchestration.PresentationOptions, outputCfg cli.OutputConfig, out io.Writer) int {
	exitCode := orchestration.AnalyzeComparisonResults(results, presOpts, cli.CLIResultPresenter{}, quietErrors{}, io.Discard)
	if exitCode != apperrors.ExitSuccess {
		for _, res := range results {
			if res.Err != nil {
				return apperrors.HandleRunError(res.Err, res.Duration, a.ErrWriter, nil)
			}
		}
		fmt.Fprintln(a.ErrWriter, "Status: Failure. Strategies found different primes.")
		return exitCode
	}

	best := findBestResult(results)
	if err := cli.DisplayResultWithConfig(out, *best, presOpts, outputCfg); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving primes: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// quietErrors maps errors to exit codes without printing.
type quietErrors struct{}

func (quietErrors) HandleError(err error, duration time.Duration, _ io.Writer) int {
	return apperrors.HandleRunError(err, duration, io.Discard, nil)
}

func findBestResult(results []orchestration.RunResult) *orchestration.RunResult {
	var best *orchestration.RunResult
	for i := range results {
		if results[i].Err == nil && (best == nil || results[i].Duration < best.Duration) {
			best = &results[i]
		}
	}
	return best
}

// runKernel times a numeric kernel serially and with the configured
// worker count.
func (a *Application) runKernel(ctx context.Context, out io.Writer) int {
	ctx, cancel := a.lifecycle(ctx)
	defer cancel()

	if !a.Config.Quiet {
		fmt.Fprintf(out, "Running kernel %s with %d workers...\n", a.Config.Kernel, a.Config.Workers)
	}
	cmp, err := kernels.Compare(ctx, a.Config.Kernel, a.Config.Samples, a.Config.Workers)
	if err != nil {
		return apperrors.HandleRunError(err, 0, a.ErrWriter, ui.Colors{})
	}
	if a.Config.Quiet {
		fmt.Fprintln(out, cli.FormatQuietKernel(cmp))
		return apperrors.ExitSuccess
	}
	cli.DisplayKernelComparison(cmp, out)
	return apperrors.ExitSuccess
}
