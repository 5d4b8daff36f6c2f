package kernels

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/exascience/pargo/parallel"

	apperrors "github.com/agbru/primepipe/internal/errors"
)

// checkInterval is the number of iterations between context checks.
const checkInterval = 1 << 16

func validate(workers int, size uint64) error {
	if workers < 1 {
		return apperrors.ValidationError{Field: "workers", Message: fmt.Sprintf("must be at least 1, got %d", workers)}
	}
	if size == 0 {
		return apperrors.ValidationError{Field: "samples", Message: "must be positive"}
	}
	return nil
}

// share returns the number of items batch i of n receives out of total.
// The first total%n batches get one extra item.
func share(total uint64, i, n int) uint64 {
	q, r := total/uint64(n), total%uint64(n)
	if uint64(i) < r {
		return q + 1
	}
	return q
}

// EstimatePi draws samples points in the unit square and returns four
// times the fraction that falls inside the quarter circle. Worker i draws
// from its own PCG stream seeded with (seed, i), so the estimate is
// reproducible for a given seed and worker count.
func EstimatePi(ctx context.Context, samples uint64, workers int, seed uint64) (float64, error) {
	if err := validate(workers, samples); err != nil {
		return 0, err
	}

	hitsIn := func(low, high int) (int, error) {
		var hits int
		for w := low; w < high; w++ {
			rng := rand.New(rand.NewPCG(seed, uint64(w)))
			n := share(samples, w, workers)
			for i := uint64(0); i < n; i++ {
				if i%checkInterval == 0 {
					if err := ctx.Err(); err != nil {
						return 0, err
					}
				}
				x, y := rng.Float64(), rng.Float64()
				if x*x+y*y <= 1 {
					hits++
				}
			}
		}
		return hits, nil
	}

	var hits int
	var err error
	if workers == 1 {
		hits, err = hitsIn(0, 1)
	} else {
		hits, err = parallel.IntRangeReduce(0, workers, workers, hitsIn,
			func(x, y int) (int, error) { return x + y, nil })
	}
	if err != nil {
		return 0, err
	}
	return 4 * float64(hits) / float64(samples), nil
}

// SumOfSquares returns the sum of v*v over values, reduced in workers
// contiguous batches.
func SumOfSquares(ctx context.Context, values []float64, workers int) (float64, error) {
	if err := validate(workers, uint64(len(values))); err != nil {
		return 0, err
	}

	sumRange := func(low, high int) (float64, error) {
		var sum float64
		for i := low; i < high; i++ {
			if (i-low)%checkInterval == 0 {
				if err := ctx.Err(); err != nil {
					return 0, err
				}
			}
			sum += values[i] * values[i]
		}
		return sum, nil
	}

	if workers == 1 {
		return sumRange(0, len(values))
	}
	return parallel.Float64RangeReduce(0, len(values), workers, sumRange,
		func(x, y float64) (float64, error) { return x + y, nil })
}

// Values returns the deterministic input used by the sum kernel:
// 1, 2, ..., n scaled by 1/n.
func Values(n uint64) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = float64(i+1) / float64(n)
	}
	return values
}
