// Package calibration measures the pipeline at several worker counts and
// caches the fastest one for later runs.
package calibration

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/agbru/primepipe/internal/config"
	apperrors "github.com/agbru/primepipe/internal/errors"
	"github.com/agbru/primepipe/internal/orchestration"
	"github.com/agbru/primepipe/internal/progress"
	"github.com/agbru/primepipe/internal/sieve"
	"github.com/agbru/primepipe/internal/strategy"
	"github.com/agbru/primepipe/internal/telemetry"
	"github.com/agbru/primepipe/internal/ui"
)

// Calibration workloads. Candidates near 10^9 need about 16k trial
// divisions per prime, which keeps each measurement CPU-bound.
var (
	FullRange  = sieve.Range{Lo: 1_000_000_000, Hi: 1_000_040_000}
	QuickRange = sieve.Range{Lo: 1_000_000_000, Hi: 1_000_008_000}
)

// MaxProfileAge is how long a cached profile is trusted.
const MaxProfileAge = 30 * 24 * time.Hour

type calibrationResult struct {
	Workers  int
	Duration time.Duration
	Primes   int
	Err      error
}

// sweep runs s over rng once per worker count. Progress for count i is
// reported on index i.
func sweep(ctx context.Context, s strategy.Strategy, rng sieve.Range, counts []int, progressChan chan<- progress.ProgressUpdate) []calibrationResult {
	results := make([]calibrationResult, 0, len(counts))
	reference := -1
	for i, w := range counts {
		start := time.Now()
		primes, err := s.FindPrimes(ctx, progressChan, i, rng, strategy.Options{Workers: w})
		res := calibrationResult{Workers: w, Duration: time.Since(start), Primes: len(primes), Err: err}
		if err == nil {
			if reference < 0 {
				reference = len(primes)
			} else if len(primes) != reference {
				res.Err = apperrors.InvariantError{Invariant: "prime count across worker counts", Expected: reference, Observed: len(primes)}
			}
		}
		results = append(results, res)
		if ctx.Err() != nil {
			break
		}
	}
	return results
}

// invariantViolation returns the first InvariantError recorded by a sweep.
// A sweep that found one must not produce a recommendation.
func invariantViolation(results []calibrationResult) error {
	for _, r := range results {
		if apperrors.IsInvariantError(r.Err) {
			return fmt.Errorf("calibration with %d workers: %w", r.Workers, r.Err)
		}
	}
	return nil
}

// findBestWorkers returns the worker count with the lowest duration among
// the successful measurements.
func findBestWorkers(results []calibrationResult) (int, bool) {
	best, bestDuration, found := 0, time.Duration(0), false
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		if !found || r.Duration < bestDuration {
			best, bestDuration, found = r.Workers, r.Duration, true
		}
	}
	return best, found
}

// RunCalibration performs the full worker sweep with s, prints the
// summary table and saves the winner to profilePath (the default path
// when empty). It returns an exit code.
func RunCalibration(ctx context.Context, out io.Writer, s strategy.Strategy, reporter orchestration.ProgressReporter, profilePath string) int {
	counts := GenerateWorkerCounts()
	fmt.Fprintf(out, "--- Calibration Mode: %s over %s ---\n", s.Description(), FullRange)

	ctx, span := telemetry.StartSpan(ctx, "calibration.run",
		attribute.String("strategy", s.Name()), attribute.Int("points", len(counts)))

	progressChan := make(chan progress.ProgressUpdate, len(counts)*orchestration.ProgressBufferMultiplier)
	var wg sync.WaitGroup
	wg.Add(1)
	go reporter.DisplayProgress(&wg, progressChan, len(counts), out)

	start := time.Now()
	results := sweep(ctx, s, FullRange, counts, progressChan)
	close(progressChan)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		telemetry.EndSpan(span, err)
		return apperrors.HandleRunError(err, time.Since(start), out, ui.Colors{})
	}

	best, ok := findBestWorkers(results)
	if err := invariantViolation(results); err != nil {
		printCalibrationResults(out, results, 0)
		telemetry.EndSpan(span, err)
		return apperrors.HandleRunError(err, 0, out, ui.Colors{})
	}
	printCalibrationResults(out, results, best)
	if !ok {
		err := fmt.Errorf("every calibration run failed")
		telemetry.EndSpan(span, err)
		fmt.Fprintf(out, "%s%v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return apperrors.ExitErrorGeneric
	}
	telemetry.EndSpan(span, nil)

	fmt.Fprintf(out, "\n%sRecommended worker count: %d%s\n", ui.ColorGreen(), best, ui.ColorReset())
	saveProfile(out, profilePath, best, FullRange, time.Since(start))
	return apperrors.ExitSuccess
}

// AutoCalibrate runs a quick sweep and returns cfg with Workers set to the
// fastest count. It reports false, leaving cfg untouched, when no run
// succeeded or the runs disagreed on the prime count.
func AutoCalibrate(ctx context.Context, cfg config.AppConfig, out io.Writer, s strategy.Strategy) (config.AppConfig, bool) {
	start := time.Now()
	results := sweep(ctx, s, QuickRange, GenerateQuickWorkerCounts(), nil)
	best, ok := findBestWorkers(results)
	if !ok || ctx.Err() != nil || invariantViolation(results) != nil {
		return cfg, false
	}
	cfg.Workers = best
	printCalibrationOutput(cfg, out)
	saveProfile(io.Discard, cfg.CalibrationProfile, best, QuickRange, time.Since(start))
	return cfg, true
}

// LoadCachedCalibration applies a cached profile when the worker count
// was not set explicitly and the profile matches this machine.
func LoadCachedCalibration(cfg config.AppConfig, profilePath string) (config.AppConfig, bool) {
	if cfg.Workers != 0 {
		return cfg, false
	}
	if profilePath == "" {
		profilePath = GetDefaultProfilePath()
	}
	p, loaded := LoadOrCreateProfile(profilePath)
	if !loaded || p.IsStale(MaxProfileAge) {
		return cfg, false
	}
	cfg.Workers = p.OptimalWorkers
	return cfg, true
}

func saveProfile(out io.Writer, path string, workers int, rng sieve.Range, elapsed time.Duration) {
	if path == "" {
		path = GetDefaultProfilePath()
	}
	p := NewProfile()
	p.OptimalWorkers = workers
	p.CalibrationRange = rng.String()
	p.CalibrationTime = elapsed.Round(time.Millisecond).String()
	if err := p.SaveProfile(path); err != nil {
		fmt.Fprintf(out, "%sWarning: %v%s\n", ui.ColorYellow(), err, ui.ColorReset())
		return
	}
	fmt.Fprintf(out, "Profile saved to %s\n", path)
}
