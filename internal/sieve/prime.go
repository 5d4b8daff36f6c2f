package sieve

import "math"

// ISqrt returns floor(sqrt(n)) exactly for every uint64.
func ISqrt(n uint64) uint64 {
	r := uint64(math.Sqrt(float64(n)))
	// float64 rounding can land one off in either direction near 2^64.
	if r > math.MaxUint32 {
		r = math.MaxUint32
	}
	for r*r > n {
		r--
	}
	for r < math.MaxUint32 && (r+1)*(r+1) <= n {
		r++
	}
	return r
}

// IsPrime reports whether n is prime using trial division by odd divisors
// up to ISqrt(n). Even numbers other than 2 are rejected immediately.
func IsPrime(n uint64) bool {
	switch {
	case n < 2:
		return false
	case n == 2:
		return true
	case n%2 == 0:
		return false
	}
	limit := ISqrt(n)
	for d := uint64(3); d <= limit; d += 2 {
		if n%d == 0 {
			return false
		}
	}
	return true
}

// Sequential returns the primes of rng in ascending order using a single
// goroutine. It is the reference every parallel strategy must agree with.
func Sequential(rng Range) []uint64 {
	var primes []uint64
	for n := rng.Lo; n < rng.Hi; n++ {
		if IsPrime(n) {
			primes = append(primes, n)
		}
	}
	return primes
}
