// Package strategy provides interchangeable ways of finding the primes of a
// range. The queue strategy runs the producer/consumer pipeline; the pool
// and sequential strategies serve as comparison baselines and as an oracle.
//
// Strategies are looked up by name through a Factory:
//
//	factory := strategy.NewDefaultFactory()
//	s, err := factory.Get("queue")
//	primes, err := s.FindPrimes(ctx, nil, 0, rng, strategy.Options{Workers: 4})
package strategy
