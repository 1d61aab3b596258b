package tour

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tspga/internal/graph"
)

func TestTwoOptRestoresSquare(t *testing.T) {
	g := squareGraph()
	want := Simple(g)
	p := Simple(g)
	p.ReverseRange(3, 6)
	require.Greater(t, p.Length(g), 8.0)

	moves := TwoOptIterate(g, p, 0, p.Size())
	assert.Equal(t, 1, moves)
	assert.Zero(t, Compare(want, p), "got %s", p)
	assert.Equal(t, 8.0, p.Length(g))
}

func TestTwoOptNeverLengthens(t *testing.T) {
	g := graph.Random(60, rand.New(rand.NewSource(11)))
	p := Random(g, rand.New(rand.NewSource(12)))
	p.CacheNeighborhood(g)

	length := p.Length(g)
	for TwoOptPass(g, p, 0, p.Size()) {
		requireConsistent(t, g, p)
		next := p.Length(g)
		require.Less(t, next, length)
		length = next
	}
	isPermutation(t, p, 60)
	assert.InDelta(t, BuildNeighborhood(g, p).Length(), length, 1e-6)
}

func TestTwoOptConvergedHasNoMove(t *testing.T) {
	g := graph.Random(40, rand.New(rand.NewSource(13)))
	p := Random(g, rand.New(rand.NewSource(14)))
	TwoOptIterate(g, p, 0, p.Size())
	for start := 0; start < p.Size(); start++ {
		require.False(t, TwoOptMove(g, p, start, 0, p.Size()))
	}
}

func TestTwoOptBudget(t *testing.T) {
	g := graph.Random(80, rand.New(rand.NewSource(15)))
	p := Random(g, rand.New(rand.NewSource(16)))
	p.CacheNeighborhood(g)
	before := p.Length(g)

	moves := TwoOptBudget(g, p, 17, 5)
	assert.LessOrEqual(t, moves, 5)
	assert.LessOrEqual(t, p.Length(g), before)
	requireConsistent(t, g, p)

	assert.Zero(t, TwoOptBudget(g, p, 0, 0))
}

func TestTwoOptTinyPaths(t *testing.T) {
	g := graph.New([]graph.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}})
	p := Simple(g)
	assert.False(t, TwoOptMove(g, p, 0, 0, 3))
	assert.Zero(t, TwoOptIterate(g, p, 0, 3))
}
