// Package random provides the seedable sources used by the simulation.
//
// Engine code never reaches for the global math/rand functions. A session
// stores one seed and every step derives its own source from it, so a
// session's outcome is a pure function of roster, events and seed.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// Source is the subset of *rand.Rand the engine draws from.
type Source interface {
	Float64() float64
	Intn(n int) int
	Int63() int64
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// New returns a deterministic source for seed.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// ForStep derives an independent source for one step of a seeded session.
// Step 0 is the roster generation; event resolutions use their result index + 1.
func ForStep(seed int64, step int) *rand.Rand {
	return New(int64(mix(uint64(seed) + uint64(step)*0x9e3779b97f4a7c15)))
}

// mix is the splitmix64 finalizer.
func mix(z uint64) uint64 {
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Bernoulli reports success with probability p; p outside [0,1] is clamped.
func Bernoulli(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return src.Float64() < p
}

// Pick returns a uniformly chosen element of items. items must be non-empty.
func Pick[T any](src Source, items []T) T {
	return items[src.Intn(len(items))]
}

// Between returns a uniform integer in [lo, hi].
func Between(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.Intn(hi-lo+1)
}
