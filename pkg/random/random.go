// Package random provides the seeded randomness used by a lottery session.
//
// A session owns exactly one Source. Every random decision (apartment order,
// spot pick, reservation placement) goes through it, so replaying a session
// with the same seed, roster and layout reproduces the same draws.
package random

import (
	"math/rand/v2"
)

// Source yields uniformly distributed floats in [0, 1).
type Source interface {
	Float64() float64
}

// Seeded is a deterministic Source backed by a PCG generator.
type Seeded struct {
	seed int64
	rng  *rand.Rand
}

// New returns a Source whose sequence is fully determined by seed.
func New(seed int64) *Seeded {
	s := uint64(seed)
	return &Seeded{
		seed: seed,
		rng:  rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15)),
	}
}

// Seed returns the seed the source was created with.
func (s *Seeded) Seed() int64 {
	return s.seed
}

// Float64 returns the next value in [0, 1).
func (s *Seeded) Float64() float64 {
	return s.rng.Float64()
}

// Intn returns a uniform index in [0, n). It panics if n <= 0.
func Intn(src Source, n int) int {
	if n <= 0 {
		panic("random: Intn called with non-positive n")
	}
	i := int(src.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// Shuffle returns a shuffled copy of items (Fisher-Yates); items is not modified.
func Shuffle[T any](src Source, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := Intn(src, i+1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Pick returns a uniformly chosen element of items, or false if items is empty.
func Pick[T any](src Source, items []T) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[Intn(src, len(items))], true
}
