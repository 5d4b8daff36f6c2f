// Package sieve holds the arithmetic shared by every prime-finding strategy:
// trial-division primality, exact integer square roots, candidate ranges and
// the sequential reference scan used as an oracle in tests.
package sieve
