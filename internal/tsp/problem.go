// Package tsp adapts tours over a Euclidean graph to the genetic engine.
package tsp

import (
	"encoding/binary"
	"fmt"
	"math/rand"

	"github.com/cespare/xxhash/v2"

	"tspga/internal/graph"
	"tspga/internal/tour"
)

type Options struct {
	Crossover    string
	Mutation     string
	TwoOptPasses int
}

// Problem is the travelling salesman problem over a fixed graph. Solutions
// are tours scored by their closed length.
type Problem struct {
	graph     *graph.Graph
	crossover Crossover
	mutation  Mutation
}

func NewProblem(g *graph.Graph, opts Options) (*Problem, error) {
	if g == nil {
		return nil, fmt.Errorf("graph is required")
	}
	if g.Size() == 0 {
		return nil, fmt.Errorf("graph must have at least one node")
	}
	if opts.TwoOptPasses < 0 {
		return nil, fmt.Errorf("two-opt passes must be >= 0")
	}
	if opts.TwoOptPasses == 0 {
		opts.TwoOptPasses = DefaultTwoOptPasses
	}
	if opts.Crossover == "" {
		opts.Crossover = CrossoverNeighbors
	}
	if opts.Mutation == "" {
		opts.Mutation = MutationTwoOpt
	}

	crossover, err := ResolveCrossover(opts.Crossover, opts)
	if err != nil {
		return nil, err
	}
	mutation, err := ResolveMutation(opts.Mutation, opts)
	if err != nil {
		return nil, err
	}
	return &Problem{graph: g, crossover: crossover, mutation: mutation}, nil
}

func (p *Problem) Graph() *graph.Graph {
	return p.graph
}

func (p *Problem) CrossoverName() string {
	return p.crossover.Name()
}

func (p *Problem) MutationName() string {
	return p.mutation.Name()
}

func (p *Problem) Generate(rng *rand.Rand) *tour.Path {
	return tour.Random(p.graph, rng)
}

// Regularize puts a tour in canonical form: node 0 first, walked towards its
// smaller-id neighbour. Tours describing the same cycle become identical. The
// neighbourhood cache is built if missing.
func (p *Problem) Regularize(s *tour.Path) {
	s.SetStartingNode(0)
	if s.Previous(0) < s.Next(0) {
		s.Mirror()
	}
	if s.Neighborhood() == nil {
		s.CacheNeighborhood(p.graph)
	}
}

func (p *Problem) Compare(a, b *tour.Path) int {
	return tour.Compare(a, b)
}

func (p *Problem) Evaluate(s *tour.Path) float64 {
	return s.Length(p.graph)
}

func (p *Problem) Copy(s *tour.Path) *tour.Path {
	return s.Clone()
}

func (p *Problem) Cross(rng *rand.Rand, a, b *tour.Path) *tour.Path {
	return p.crossover.Cross(rng, p.graph, a, b)
}

func (p *Problem) Mutate(rng *rand.Rand, s *tour.Path) {
	p.mutation.Mutate(rng, p.graph, s)
}

// Hash digests the node order. Regularised tours of the same cycle hash
// equally.
func (p *Problem) Hash(s *tour.Path) uint64 {
	d := xxhash.New()
	var buf [8]byte
	for i := 0; i < s.Size(); i++ {
		binary.LittleEndian.PutUint64(buf[:], uint64(s.At(i)))
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}
