package orchestration

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/primepipe/internal/errors"
	"github.com/agbru/primepipe/internal/progress"
	"github.com/agbru/primepipe/internal/sieve"
	"github.com/agbru/primepipe/internal/strategy"
	"github.com/agbru/primepipe/internal/telemetry"
)

// ProgressBufferMultiplier sizes the shared progress channel per strategy.
// A larger buffer makes dropped updates less likely when the UI is slow.
const ProgressBufferMultiplier = 16

// ExecuteStrategies runs every strategy concurrently over rng and returns
// their results in input order. A failing strategy does not cancel the
// others: each result carries its own error.
func ExecuteStrategies(ctx context.Context, strategies []strategy.Strategy, rng sieve.Range, opts strategy.Options, reporter ProgressReporter, out io.Writer) []RunResult {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]RunResult, len(strategies))
	progressChan := make(chan progress.ProgressUpdate, max(len(strategies), 1)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go reporter.DisplayProgress(&displayWg, progressChan, len(strategies), out)

	for i, s := range strategies {
		g.Go(func() error {
			sctx, span := telemetry.StartSpan(ctx, "strategy."+s.Name(),
				attribute.String("range", rng.String()))
			start := time.Now()
			primes, err := s.FindPrimes(sctx, progressChan, i, rng, opts)
			if err != nil {
				err = apperrors.RunError{Strategy: s.Name(), Cause: err}
			}
			telemetry.EndSpan(span, err)
			results[i] = RunResult{
				Name:        s.Name(),
				Description: s.Description(),
				Primes:      primes,
				Duration:    time.Since(start),
				Err:         err,
			}
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

// AnalyzeComparisonResults sorts results by duration (successes first),
// presents the comparison table and verifies that every successful strategy
// found the same set of primes. It returns the process exit code.
func AnalyzeComparisonResults(results []RunResult, opts PresentationOptions, presenter ResultPresenter, errHandler ErrorHandler, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	var firstValid *RunResult
	var firstError error
	for i := range results {
		if results[i].Err != nil {
			if firstError == nil {
				firstError = results[i].Err
			}
			continue
		}
		if firstValid == nil {
			firstValid = &results[i]
		}
	}

	presenter.PresentComparisonTable(results, out)

	if firstValid == nil {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No strategy completed the run.\n")
		return errHandler.HandleError(firstError, 0, out)
	}

	for _, res := range results {
		if res.Err == nil && !SamePrimeSet(res.Primes, firstValid.Primes) {
			fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! %s and %s found different primes.\n", firstValid.Name, res.Name)
			return apperrors.ExitErrorMismatch
		}
	}

	if len(results) > 1 {
		fmt.Fprintf(out, "\nGlobal Status: Success. All valid results are consistent.\n")
	}
	presenter.PresentResult(*firstValid, opts, out)
	return apperrors.ExitSuccess
}

// SamePrimeSet reports whether a and b hold the same values, ignoring order.
// Arrival order of the queue strategy is not deterministic, so results are
// compared as sets.
func SamePrimeSet(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	as, bs := slices.Clone(a), slices.Clone(b)
	slices.Sort(as)
	slices.Sort(bs)
	return slices.Equal(as, bs)
}
