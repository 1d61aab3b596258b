// Package evo runs a generational genetic algorithm over any solution type.
package evo

import "math/rand"

// Problem supplies the solution-specific operations of the algorithm. Scores
// are minimised and expected to be positive.
//
// Generate, Cross and Mutate are called concurrently with distinct random
// sources. Parents passed to Cross and solutions passed to Copy are shared
// and must only be read.
type Problem[S any] interface {
	Generate(rng *rand.Rand) S
	// Regularize puts a solution in canonical form so that Compare detects
	// equivalent solutions.
	Regularize(s S)
	Compare(a, b S) int
	Evaluate(s S) float64
	Copy(s S) S
	Cross(rng *rand.Rand, a, b S) S
	Mutate(rng *rand.Rand, s S)
}

// Discarder is implemented by problems that release solutions the engine
// drops: rejected duplicates, replaced generations and superseded bests.
type Discarder[S any] interface {
	Discard(s S)
}

// Hasher is implemented by problems that can digest a regularised solution.
// Equal solutions must hash equally; equality is still decided by Compare.
type Hasher[S any] interface {
	Hash(s S) uint64
}
