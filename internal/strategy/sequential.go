package strategy

import (
	"context"

	"github.com/agbru/primepipe/internal/progress"
	"github.com/agbru/primepipe/internal/sieve"
)

// SequentialStrategy scans the range on the calling goroutine. It is the
// reference the parallel strategies are checked against.
type SequentialStrategy struct{}

// Name implements Strategy.
func (SequentialStrategy) Name() string { return "sequential" }

// Description implements Strategy.
func (SequentialStrategy) Description() string { return "Sequential Trial Division" }

// FindPrimes implements Strategy. Options are ignored.
func (SequentialStrategy) FindPrimes(ctx context.Context, progressChan chan<- progress.ProgressUpdate, index int, rng sieve.Range, _ Options) ([]uint64, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	report := progress.NonBlockingSender(progressChan, index)
	total := float64(rng.Len())

	var primes []uint64
	for n := rng.Lo; n < rng.Hi; n++ {
		if (n-rng.Lo)%checkInterval == 0 && n != rng.Lo {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			report(float64(n-rng.Lo) / total)
		}
		if sieve.IsPrime(n) {
			primes = append(primes, n)
		}
	}
	report(1.0)
	return primes, nil
}
