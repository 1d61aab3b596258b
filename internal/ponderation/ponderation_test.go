package ponderation

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetMaintainsTotal(t *testing.T) {
	p := New(4)
	p.Set(0, 1)
	p.Set(1, 2)
	p.Set(1, 5)
	p.Set(3, 0.5)
	assert.InDelta(t, 6.5, p.Total(), 1e-12)
	assert.Equal(t, 5.0, p.Weight(1))

	p.Reset()
	assert.Zero(t, p.Total())
	for i := 0; i < p.Len(); i++ {
		assert.Zero(t, p.Weight(i))
	}
}

func TestDrawOnlyReturnsPositiveWeights(t *testing.T) {
	p := New(6)
	p.Set(1, 0.25)
	p.Set(4, 3)
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 10_000; i++ {
		idx := p.Draw(rng)
		require.Truef(t, idx == 1 || idx == 4, "unexpected index %d", idx)
	}
}

func TestDrawUniformWeightsIsRoughlyUniform(t *testing.T) {
	p := New(4)
	for i := 0; i < 4; i++ {
		p.Set(i, 1)
	}
	rng := rand.New(rand.NewSource(42))
	const draws = 1_000_000
	counts := make([]int, 4)
	for i := 0; i < draws; i++ {
		counts[p.Draw(rng)]++
	}
	for i, c := range counts {
		assert.InDeltaf(t, 0.25, float64(c)/draws, 0.005, "index %d drawn %d times", i, c)
	}
}

func TestDrawFollowsWeights(t *testing.T) {
	p := New(2)
	p.Set(0, 1)
	p.Set(1, 3)
	rng := rand.New(rand.NewSource(3))
	const draws = 200_000
	ones := 0
	for i := 0; i < draws; i++ {
		if p.Draw(rng) == 1 {
			ones++
		}
	}
	assert.InDelta(t, 0.75, float64(ones)/draws, 0.01)
}

func TestDrawWithZeroTotalPanics(t *testing.T) {
	p := New(3)
	p.Set(0, 0)
	require.PanicsWithValue(t, ErrEmpty, func() {
		p.Draw(rand.New(rand.NewSource(1)))
	})
}

func TestSetRejectsInvalidWeights(t *testing.T) {
	p := New(1)
	require.Panics(t, func() { p.Set(0, -1) })
}
