package tsp

import (
	"math"
	"math/rand"

	"tspga/internal/ensemble"
	"tspga/internal/graph"
	"tspga/internal/ponderation"
	"tspga/internal/tour"
)

const (
	CrossoverNeighbors = "neighbors"
	CrossoverNaiveCut  = "naive-cut"
	MutationTwoOpt     = "two-opt"
)

// DefaultTwoOptPasses bounds the 2-opt work done by one mutation.
const DefaultTwoOptPasses = 100

// minDistance keeps inverse-distance weights finite for coincident points.
const minDistance = 1e-9

// Crossover combines two parents into a new tour. Parents are shared with
// other goroutines and must not be modified.
type Crossover interface {
	Name() string
	Cross(rng *rand.Rand, g *graph.Graph, a, b *tour.Path) *tour.Path
}

// Mutation modifies a tour in place.
type Mutation interface {
	Name() string
	Mutate(rng *rand.Rand, g *graph.Graph, p *tour.Path)
}

// NaiveCutCrossover keeps a prefix of the first parent, fills a middle
// section in the order of the second parent and completes from the first.
type NaiveCutCrossover struct{}

func (NaiveCutCrossover) Name() string {
	return CrossoverNaiveCut
}

func (NaiveCutCrossover) Cross(rng *rand.Rand, g *graph.Graph, a, b *tour.Path) *tour.Path {
	size := a.Size()
	if size < 3 {
		return tour.Of(a.Nodes())
	}
	cut1 := rng.Intn(size - 2)
	cut2 := cut1 + 1 + rng.Intn(size-cut1-1)

	used := ensemble.New(g.Size())
	head := tour.ExtractExcluding(a, used, 0, cut1)
	used.AddAll(head.Nodes())
	middle := tour.ExtractExcluding(b, used, cut1, cut2-cut1)
	used.AddAll(middle.Nodes())
	tail := tour.ExtractExcluding(a, used, cut2, size-cut2)

	return tour.Concat([]*tour.Path{head, middle, tail})
}

// NeighborsCrossover walks from a random node, choosing each next node among
// the parents' neighbours of the current one with probability inversely
// proportional to the edge length. The child is then improved by a bounded
// 2-opt run.
type NeighborsCrossover struct {
	TwoOptPasses int
}

func (NeighborsCrossover) Name() string {
	return CrossoverNeighbors
}

func (c NeighborsCrossover) Cross(rng *rand.Rand, g *graph.Graph, a, b *tour.Path) *tour.Path {
	size := g.Size()
	nbA := neighborhoodOf(g, a)
	nbB := neighborhoodOf(g, b)

	visited := ensemble.New(size)
	weights := ponderation.New(4)
	nodes := make([]int, 0, size)

	current := rng.Intn(size)
	nodes = append(nodes, current)
	visited.Add(current)

	unvisitedFrom := 0
	var candidates [4]tour.Neighbor
	for len(nodes) < size {
		candidates[0] = nbA.Neighbor(current, tour.Successor)
		candidates[1] = nbA.Neighbor(current, tour.Predecessor)
		candidates[2] = nbB.Neighbor(current, tour.Successor)
		candidates[3] = nbB.Neighbor(current, tour.Predecessor)

		weights.Reset()
		for i, candidate := range candidates {
			if !visited.Contains(candidate.Node) {
				weights.Set(i, 1/math.Max(candidate.Distance, minDistance))
			}
		}

		if weights.Total() > 0 {
			current = candidates[weights.Draw(rng)].Node
		} else {
			current = firstUnvisited(visited, unvisitedFrom)
			unvisitedFrom = current
		}
		nodes = append(nodes, current)
		visited.Add(current)
	}

	child := tour.Of(nodes)
	if c.TwoOptPasses > 0 && size > 0 {
		child.CacheNeighborhood(g)
		tour.TwoOptBudget(g, child, rng.Intn(size), c.TwoOptPasses)
	}
	return child
}

func neighborhoodOf(g *graph.Graph, p *tour.Path) *tour.Neighborhood {
	if nb := p.Neighborhood(); nb != nil {
		return nb
	}
	return tour.BuildNeighborhood(g, p)
}

// firstUnvisited returns the lowest id not in visited, scanning upward from
// from and wrapping around. At least one id must be unvisited.
func firstUnvisited(visited *ensemble.Ensemble, from int) int {
	size := visited.Size()
	for i := 0; i < size; i++ {
		id := (from + i) % size
		if !visited.Contains(id) {
			return id
		}
	}
	panic("tsp: every node already visited")
}

// TwoOptMutation applies a bounded 2-opt run from a random start position.
type TwoOptMutation struct {
	Passes int
}

func (TwoOptMutation) Name() string {
	return MutationTwoOpt
}

func (m TwoOptMutation) Mutate(rng *rand.Rand, g *graph.Graph, p *tour.Path) {
	if p.Size() == 0 {
		return
	}
	tour.TwoOptBudget(g, p, rng.Intn(p.Size()), m.Passes)
}
