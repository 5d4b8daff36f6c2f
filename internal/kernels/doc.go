// Package kernels provides small numeric workloads used to compare serial
// and parallel execution outside the prime pipeline: a Monte Carlo
// estimate of pi and a sum-of-squares reduction.
//
// Both kernels split their input into one batch per worker and combine the
// partial results with a pairwise reduction. A worker count of one runs the
// serial variant on the calling goroutine.
package kernels
