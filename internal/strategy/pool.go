package strategy

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/primepipe/internal/errors"
	"github.com/agbru/primepipe/internal/progress"
	"github.com/agbru/primepipe/internal/sieve"
)

// checkInterval is how many candidates a chunk scans between two context
// checks and progress reports.
const checkInterval = 4096

// PoolStrategy partitions the range into one contiguous chunk per worker and
// scans the chunks concurrently. Primes come back in ascending order.
type PoolStrategy struct{}

// Name implements Strategy.
func (PoolStrategy) Name() string { return "pool" }

// Description implements Strategy.
func (PoolStrategy) Description() string { return "Fixed-Partition Pool" }

// FindPrimes implements Strategy.
func (PoolStrategy) FindPrimes(ctx context.Context, progressChan chan<- progress.ProgressUpdate, index int, rng sieve.Range, opts Options) ([]uint64, error) {
	if opts.Workers < 0 {
		return nil, apperrors.ValidationError{Field: "workers", Message: "must be at least 1"}
	}
	if err := rng.Validate(); err != nil {
		return nil, err
	}

	chunks := rng.Split(opts.workers())
	parts := make([][]uint64, len(chunks))
	report := progress.NonBlockingSender(progressChan, index)
	total := float64(rng.Len())
	var done atomic.Uint64

	g, gctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		g.Go(func() error {
			var local []uint64
			for n := chunk.Lo; n < chunk.Hi; n++ {
				if (n-chunk.Lo)%checkInterval == 0 && n != chunk.Lo {
					if err := gctx.Err(); err != nil {
						return err
					}
					report(float64(done.Add(checkInterval)) / total)
				}
				if sieve.IsPrime(n) {
					local = append(local, n)
				}
			}
			parts[i] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	report(1.0)

	var primes []uint64
	for _, p := range parts {
		primes = append(primes, p...)
	}
	return primes, nil
}
