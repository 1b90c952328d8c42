package randutil

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsDeterministic(t *testing.T) {
	t.Parallel()

	a := New(42)
	b := New(42)
	for range 100 {
		require.Equal(t, a.IntN(1000), b.IntN(1000))
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	t.Parallel()

	rng := New(7)
	orig := make([]int, 100)
	for i := range orig {
		orig[i] = i
	}

	for range 50 {
		s := slices.Clone(orig)
		Shuffle(rng, s)
		sorted := slices.Clone(s)
		slices.Sort(sorted)
		assert.Equal(t, orig, sorted)
	}
}

func TestShuffleCoversAllPositions(t *testing.T) {
	t.Parallel()

	// Every element should be able to land in every slot of a short slice.
	rng := New(99)
	seen := map[[2]int]bool{}
	for range 2000 {
		s := []int{0, 1, 2}
		Shuffle(rng, s)
		for pos, v := range s {
			seen[[2]int{v, pos}] = true
		}
	}
	assert.Len(t, seen, 9)
}

func TestShuffleShortSlices(t *testing.T) {
	t.Parallel()

	rng := New(1)
	var empty []string
	Shuffle(rng, empty)
	assert.Empty(t, empty)

	one := []string{"a"}
	Shuffle(rng, one)
	assert.Equal(t, []string{"a"}, one)
}

func TestPick(t *testing.T) {
	t.Parallel()

	rng := New(3)
	opts := []string{"red", "blue", "green", "yellow"}
	for range 20 {
		assert.Contains(t, opts, Pick(rng, opts))
	}
}
