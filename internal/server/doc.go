// Package server exposes the prime pipeline over HTTP.
//
// Endpoints:
//
//	GET /primes?lo=&hi=&workers=&strategy=&sorted=   run a strategy, JSON result
//	GET /strategies                                   registered strategy names
//	GET /healthz                                      liveness check
//	GET /metrics                                      Prometheus exposition
package server
