// SPDX-License-Identifier: MIT
// Package: solver
//
// rng.go - deterministic random streams.
//
// Every trajectory owns its own *rand.Rand derived from the solver seed, a
// domain (run or resting search) and an index. Streams never depend on the
// order in which other streams were consumed.
//
// Concurrency:
//   - math/rand.Rand is not goroutine-safe; a stream is used by one trajectory only.

package solver

import "math/rand"

// defaultRNGSeed is used when the caller passes seed == 0.
const defaultRNGSeed int64 = 1

// Stream domains keep run repetitions and resting attempts apart.
const (
	domainRun uint64 = iota + 1
	domainResting
)

// rngFromSeed returns a deterministic *rand.Rand; seed 0 maps to defaultRNGSeed.
func rngFromSeed(seed int64) *rand.Rand {
	if seed == 0 {
		seed = defaultRNGSeed
	}

	return rand.New(rand.NewSource(seed))
}

// deriveSeed mixes a parent seed and a stream identifier with a SplitMix64 finalizer.
//
// Complexity: O(1).
func deriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return int64(x)
}

// streamRNG returns the stream for (seed, domain, index).
func streamRNG(seed int64, domain, index uint64) *rand.Rand {
	if seed == 0 {
		seed = defaultRNGSeed
	}

	return rngFromSeed(deriveSeed(deriveSeed(seed, domain), index))
}

// openUnit returns a uniform draw in (0, 1].
func openUnit(r *rand.Rand) float64 {
	return 1 - r.Float64()
}
