package randutil

import (
	rand "math/rand/v2"
	"time"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// Source is the subset of *rand.Rand used by the games. Tests substitute
// scripted sources to force outcomes.
type Source interface {
	IntN(n int) int
	Float64() float64
}

// New returns a *rand.Rand seeded deterministically from the provided int64.
// The helper centralises how we derive the two 64-bit seeds required by rand/v2
// so that all call sites get reproducible sequences.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// NewFromTime seeds from the wall clock and returns the seed used so it can
// be logged for replay.
func NewFromTime() (*rand.Rand, int64) {
	seed := time.Now().UnixNano()
	return New(seed), seed
}

// Shuffle permutes s in place with Fisher-Yates.
func Shuffle[T any](rng Source, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// Pick returns a uniformly chosen element of s. s must not be empty.
func Pick[T any](rng Source, s []T) T {
	return s[rng.IntN(len(s))]
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
