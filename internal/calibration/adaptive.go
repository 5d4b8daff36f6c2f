// This file generates the worker counts swept by calibration.

package calibration

import (
	"runtime"
	"slices"
)

// GenerateWorkerCounts returns the worker counts tested by a full
// calibration: powers of two up to the number of logical CPUs, plus the
// CPU count itself and one oversubscribed point.
func GenerateWorkerCounts() []int {
	return workerCounts(runtime.NumCPU(), true)
}

// GenerateQuickWorkerCounts returns a reduced sweep for -auto-calibrate:
// 1, NumCPU/2 and NumCPU.
func GenerateQuickWorkerCounts() []int {
	n := runtime.NumCPU()
	counts := []int{1}
	if half := n / 2; half > 1 {
		counts = append(counts, half)
	}
	if n > 1 {
		counts = append(counts, n)
	}
	return counts
}

func workerCounts(numCPU int, oversubscribe bool) []int {
	if numCPU < 1 {
		numCPU = 1
	}
	var counts []int
	for w := 1; w < numCPU; w *= 2 {
		counts = append(counts, w)
	}
	counts = append(counts, numCPU)
	if oversubscribe && numCPU > 1 {
		counts = append(counts, 2*numCPU)
	}
	slices.Sort(counts)
	return slices.Compact(counts)
}
