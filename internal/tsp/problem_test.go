package tsp

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tspga/internal/graph"
	"tspga/internal/tour"
)

func squareGraph() *graph.Graph {
	return graph.New([]graph.Point{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: 2}, {X: 1, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 1}, {X: 2, Y: 0}, {X: 1, Y: 0}})
}

func requirePermutation(t *testing.T, p *tour.Path, size int) {
	t.Helper()
	require.Equal(t, size, p.Size())
	nodes := p.Nodes()
	slices.Sort(nodes)
	for i, node := range nodes {
		require.Equal(t, i, node, "path %s", p)
	}
}

func newProblem(t *testing.T, g *graph.Graph, crossover string) *Problem {
	t.Helper()
	problem, err := NewProblem(g, Options{Crossover: crossover})
	require.NoError(t, err)
	return problem
}

func TestCrossoversProducePermutations(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	for _, name := range []string{CrossoverNaiveCut, CrossoverNeighbors} {
		t.Run(name, func(t *testing.T) {
			for _, size := range []int{3, 4, 10, 57} {
				g := graph.Random(size, rng)
				problem := newProblem(t, g, name)
				for range 20 {
					a := problem.Generate(rng)
					b := problem.Generate(rng)
					problem.Regularize(a)
					problem.Regularize(b)
					child := problem.Cross(rng, a, b)
					requirePermutation(t, child, size)
				}
			}
		})
	}
}

func TestCrossoverLeavesParentsUntouched(t *testing.T) {
	rng := rand.New(rand.NewSource(22))
	g := graph.Random(40, rng)
	problem := newProblem(t, g, CrossoverNeighbors)
	a := problem.Generate(rng)
	b := problem.Generate(rng)
	problem.Regularize(a)
	problem.Regularize(b)
	aBefore, bBefore := a.Clone(), b.Clone()

	problem.Cross(rng, a, b)
	assert.Zero(t, tour.Compare(aBefore, a))
	assert.Zero(t, tour.Compare(bBefore, b))
	assert.Equal(t, aBefore.Length(g), a.Length(g))
}

func TestNaiveCutTinyParentsAreCopied(t *testing.T) {
	g := graph.New([]graph.Point{{X: 0, Y: 0}, {X: 1, Y: 1}})
	problem := newProblem(t, g, CrossoverNaiveCut)
	a := tour.Of([]int{1, 0})
	child := problem.Cross(rand.New(rand.NewSource(1)), a, tour.Of([]int{0, 1}))
	assert.Equal(t, []int{1, 0}, child.Nodes())
}

func TestNeighborsOfIdenticalOptimalParents(t *testing.T) {
	g := squareGraph()
	problem := newProblem(t, g, CrossoverNeighbors)
	parent := tour.Simple(g)
	problem.Regularize(parent)

	rng := rand.New(rand.NewSource(23))
	for range 10 {
		child := problem.Cross(rng, parent, parent)
		problem.Regularize(child)
		assert.Zero(t, problem.Compare(parent, child), "child %s", child)
		assert.Equal(t, 8.0, problem.Evaluate(child))
	}
}

func TestRegularizeIsCanonical(t *testing.T) {
	rng := rand.New(rand.NewSource(24))
	g := graph.Random(30, rng)
	problem := newProblem(t, g, "")

	base := problem.Generate(rng)
	problem.Regularize(base)
	assert.Equal(t, 0, base.At(0))
	assert.Less(t, base.Next(0), base.Previous(0))

	for k := 0; k < base.Size(); k += 7 {
		variant := base.Clone()
		variant.InvalidateNeighborhood()
		variant.Shift(k)
		if k%2 == 0 {
			variant.Reverse()
		}
		problem.Regularize(variant)
		require.Zero(t, problem.Compare(base, variant))
		require.Equal(t, problem.Hash(base), problem.Hash(variant))
		require.InDelta(t, problem.Evaluate(base), problem.Evaluate(variant), 1e-6)
	}
}

func TestMutateDoesNotLengthen(t *testing.T) {
	rng := rand.New(rand.NewSource(25))
	g := graph.Random(120, rng)
	problem := newProblem(t, g, "")
	for range 10 {
		p := problem.Generate(rng)
		problem.Regularize(p)
		before := problem.Evaluate(p)

		problem.Mutate(rng, p)
		problem.Regularize(p)
		requirePermutation(t, p, 120)
		assert.LessOrEqual(t, problem.Evaluate(p), before)
		assert.InDelta(t, tour.BuildNeighborhood(g, p).Length(), problem.Evaluate(p), 1e-6)
	}
}

func TestHashDistinguishesTours(t *testing.T) {
	problem := newProblem(t, squareGraph(), "")
	a := tour.Of([]int{0, 1, 2, 3, 4, 5, 6, 7})
	b := tour.Of([]int{0, 1, 2, 3, 5, 4, 6, 7})
	assert.NotEqual(t, problem.Hash(a), problem.Hash(b))
	assert.Equal(t, problem.Hash(a), problem.Hash(a.Clone()))
}

func TestNewProblemValidation(t *testing.T) {
	g := squareGraph()

	_, err := NewProblem(nil, Options{})
	require.Error(t, err)
	_, err = NewProblem(graph.New(nil), Options{})
	require.Error(t, err)
	_, err = NewProblem(g, Options{TwoOptPasses: -1})
	require.Error(t, err)
	_, err = NewProblem(g, Options{Crossover: "pmx"})
	require.ErrorIs(t, err, ErrOperatorNotFound)
	_, err = NewProblem(g, Options{Mutation: "random-swap"})
	require.ErrorIs(t, err, ErrOperatorNotFound)

	problem, err := NewProblem(g, Options{})
	require.NoError(t, err)
	assert.Equal(t, CrossoverNeighbors, problem.CrossoverName())
	assert.Equal(t, MutationTwoOpt, problem.MutationName())
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{CrossoverNaiveCut, CrossoverNeighbors}, ListCrossovers())
	assert.Equal(t, []string{MutationTwoOpt}, ListMutations())

	err := RegisterCrossover(CrossoverNeighbors, func(Options) Crossover { return NaiveCutCrossover{} })
	require.ErrorIs(t, err, ErrOperatorExists)
	require.Error(t, RegisterCrossover("", func(Options) Crossover { return NaiveCutCrossover{} }))
	require.Error(t, RegisterMutation("nil", nil))

	c, err := ResolveCrossover(CrossoverNeighbors, Options{TwoOptPasses: 7})
	require.NoError(t, err)
	assert.Equal(t, NeighborsCrossover{TwoOptPasses: 7}, c)
}
