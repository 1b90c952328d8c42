package randutil

import rand "math/rand/v2"

// Scripted is a Source that replays fixed values before falling back to a
// seeded generator. It lets tests force a wheel pocket, a reel stop or a
// shuffle without searching for a magic seed.
type Scripted struct {
	Ints     []int
	Floats   []float64
	fallback *rand.Rand
}

// NewScripted returns a Scripted source whose fallback is seeded with seed.
func NewScripted(seed int64) *Scripted {
	return &Scripted{fallback: New(seed)}
}

// IntN returns the next scripted int (reduced modulo n) or a fallback value.
func (s *Scripted) IntN(n int) int {
	if len(s.Ints) > 0 {
		v := s.Ints[0]
		s.Ints = s.Ints[1:]
		return ((v % n) + n) % n
	}
	return s.fallbackRand().IntN(n)
}

// Float64 returns the next scripted float or a fallback value.
func (s *Scripted) Float64() float64 {
	if len(s.Floats) > 0 {
		v := s.Floats[0]
		s.Floats = s.Floats[1:]
		return v
	}
	return s.fallbackRand().Float64()
}

func (s *Scripted) fallbackRand() *rand.Rand {
	if s.fallback == nil {
		s.fallback = New(0)
	}
	return s.fallback
}

// Identity returns IntN values that leave a Fisher-Yates shuffle of n items
// unchanged: each swap picks its own index.
func Identity(n int) []int {
	out := make([]int, 0, n)
	for i := n - 1; i > 0; i-- {
		out = append(out, i)
	}
	return out
}
