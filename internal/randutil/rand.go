// Package randutil centralises how the engine obtains random sources.
package randutil

import (
	crand "crypto/rand"
	rand "math/rand/v2"
	"sync/atomic"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// Tests and simulations use it to get reproducible shuffles.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// NewSecure returns a ChaCha8 generator keyed from crypto/rand. Every call
// yields an independent stream, so shuffles cannot be predicted from game state.
func NewSecure() *rand.Rand {
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		panic("randutil: failed to read random seed: " + err.Error())
	}
	return rand.New(rand.NewChaCha8(seed))
}

// Source yields a fresh generator per shuffle.
type Source func() *rand.Rand

// Secure is the production Source.
func Secure() Source { return NewSecure }

// Seeded returns a Source whose generators are derived from seed, advancing
// once per call so consecutive hands get different decks.
func Seeded(seed int64) Source {
	var calls atomic.Int64
	return func() *rand.Rand {
		return New(seed + calls.Add(1) - 1)
	}
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
