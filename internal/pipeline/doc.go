// Package pipeline implements the producer/consumer prime pipeline.
//
// A Coordinator fills a work queue with every candidate of a range followed
// by one Stop item per worker. Each worker pops items until it sees Stop,
// forwards the primes it finds to the result queue, and finally emits a
// single WorkerDone item. The Coordinator drains the result queue until it
// has counted exactly one WorkerDone per worker.
//
// Queue items are tagged variants: a Stop marker is never confused with a
// candidate value, and a WorkerDone marker is never confused with a prime.
//
// Primes arrive in a non-deterministic order because workers race on the
// shared queues; use WithSorted to get them in ascending order.
package pipeline
