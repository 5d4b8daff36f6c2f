package kernels

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/agbru/primepipe/internal/telemetry"
)

// Names of the available kernels.
const (
	KernelPi  = "pi"
	KernelSum = "sum"
)

// DefaultSeed seeds EstimatePi when running a comparison.
const DefaultSeed uint64 = 0x5eed

// Measurement is one timed kernel execution.
type Measurement struct {
	Workers  int
	Value    float64
	Duration time.Duration
}

// Comparison holds a serial and a parallel run of the same kernel.
type Comparison struct {
	Kernel   string
	Size     uint64
	Serial   Measurement
	Parallel Measurement
	// Reference is the exact value the kernel approximates or computes.
	Reference float64
}

// Speedup returns the serial duration divided by the parallel duration,
// or zero when either is unmeasured.
func (c Comparison) Speedup() float64 {
	if c.Serial.Duration <= 0 || c.Parallel.Duration <= 0 {
		return 0
	}
	return c.Serial.Duration.Seconds() / c.Parallel.Duration.Seconds()
}

// Compare runs kernel once with a single worker and once with workers.
func Compare(ctx context.Context, kernel string, size uint64, workers int) (Comparison, error) {
	ctx, span := telemetry.StartSpan(ctx, "kernels.compare",
		attribute.String("kernel", kernel), attribute.Int64("size", int64(size)), attribute.Int("workers", workers))

	var run func(w int) (float64, error)
	cmp := Comparison{Kernel: kernel, Size: size}
	switch kernel {
	case KernelPi:
		cmp.Reference = math.Pi
		run = func(w int) (float64, error) { return EstimatePi(ctx, size, w, DefaultSeed) }
	case KernelSum:
		values := Values(size)
		n := float64(size)
		cmp.Reference = (n + 1) * (2*n + 1) / (6 * n)
		run = func(w int) (float64, error) { return SumOfSquares(ctx, values, w) }
	default:
		err := fmt.Errorf("unknown kernel %q", kernel)
		telemetry.EndSpan(span, err)
		return Comparison{}, err
	}

	measure := func(w int) (Measurement, error) {
		start := time.Now()
		v, err := run(w)
		return Measurement{Workers: w, Value: v, Duration: time.Since(start)}, err
	}

	var err error
	if cmp.Serial, err = measure(1); err == nil {
		cmp.Parallel, err = measure(workers)
	}
	telemetry.EndSpan(span, err)
	if err != nil {
		return Comparison{}, err
	}
	return cmp, nil
}
