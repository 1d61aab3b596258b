package tsp

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrOperatorExists   = errors.New("operator already registered")
	ErrOperatorNotFound = errors.New("operator not found")
)

// CrossoverFactory builds a crossover operator configured by opts.
type CrossoverFactory func(opts Options) Crossover

// MutationFactory builds a mutation operator configured by opts.
type MutationFactory func(opts Options) Mutation

type registry[T any] struct {
	mu sync.RWMutex
	m  map[string]T
}

func newRegistry[T any]() *registry[T] {
	return &registry[T]{m: make(map[string]T)}
}

func (r *registry[T]) register(kind, name string, factory T, isNil bool) error {
	if name == "" {
		return fmt.Errorf("%s name is required", kind)
	}
	if isNil {
		return fmt.Errorf("%s factory is required", kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.m[name]; exists {
		return fmt.Errorf("%w: %s %s", ErrOperatorExists, kind, name)
	}
	r.m[name] = factory
	return nil
}

func (r *registry[T]) resolve(kind, name string) (T, error) {
	r.mu.RLock()
	factory, ok := r.m[name]
	r.mu.RUnlock()

	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s %q", ErrOperatorNotFound, kind, name)
	}
	return factory, nil
}

func (r *registry[T]) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.m))
	for name := range r.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var (
	crossovers = newRegistry[CrossoverFactory]()
	mutations  = newRegistry[MutationFactory]()
)

func init() {
	mustRegister(RegisterCrossover(CrossoverNeighbors, func(opts Options) Crossover {
		return NeighborsCrossover{TwoOptPasses: opts.TwoOptPasses}
	}))
	mustRegister(RegisterCrossover(CrossoverNaiveCut, func(Options) Crossover {
		return NaiveCutCrossover{}
	}))
	mustRegister(RegisterMutation(MutationTwoOpt, func(opts Options) Mutation {
		return TwoOptMutation{Passes: opts.TwoOptPasses}
	}))
}

func mustRegister(err error) {
	if err != nil {
		panic(err)
	}
}

// RegisterCrossover makes a crossover available to NewProblem under name.
func RegisterCrossover(name string, factory CrossoverFactory) error {
	return crossovers.register("crossover", name, factory, factory == nil)
}

// RegisterMutation makes a mutation available to NewProblem under name.
func RegisterMutation(name string, factory MutationFactory) error {
	return mutations.register("mutation", name, factory, factory == nil)
}

func ResolveCrossover(name string, opts Options) (Crossover, error) {
	factory, err := crossovers.resolve("crossover", name)
	if err != nil {
		return nil, err
	}
	return factory(opts), nil
}

func ResolveMutation(name string, opts Options) (Mutation, error) {
	factory, err := mutations.resolve("mutation", name)
	if err != nil {
		return nil, err
	}
	return factory(opts), nil
}

func ListCrossovers() []string {
	return crossovers.names()
}

func ListMutations() []string {
	return mutations.names()
}
