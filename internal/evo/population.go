package evo

import (
	"math"
	"math/rand"
	"sync"

	"tspga/internal/ponderation"
)

// minScore keeps inverse-score weights finite.
const minScore = 1e-9

type Individual[S any] struct {
	Solution S
	Score    float64
	Scored   bool
}

func scores[S any](population []Individual[S]) []float64 {
	out := make([]float64, len(population))
	for i, ind := range population {
		out[i] = ind.Score
	}
	return out
}

// roulette draws population indices with probability proportional to the
// inverse score. It is read-only once built.
type roulette struct {
	weights *ponderation.Ponderation
}

func newRoulette[S any](population []Individual[S]) roulette {
	weights := ponderation.New(len(population))
	for i, ind := range population {
		weights.Set(i, 1/math.Max(ind.Score, minScore))
	}
	return roulette{weights: weights}
}

func (r roulette) pick(rng *rand.Rand) int {
	return r.weights.Draw(rng)
}

// uniqueSet admits a solution only if no equal solution was admitted before.
// Solutions are bucketed by hash and compared within a bucket.
type uniqueSet[S any] struct {
	mu      sync.Mutex
	compare func(a, b S) int
	hash    func(s S) uint64
	buckets map[uint64][]S
}

func newUniqueSet[S any](compare func(a, b S) int, hash func(s S) uint64) *uniqueSet[S] {
	if hash == nil {
		hash = func(S) uint64 { return 0 }
	}
	return &uniqueSet[S]{
		compare: compare,
		hash:    hash,
		buckets: make(map[uint64][]S),
	}
}

func (u *uniqueSet[S]) insert(s S) bool {
	h := u.hash(s)

	u.mu.Lock()
	defer u.mu.Unlock()

	for _, other := range u.buckets[h] {
		if u.compare(s, other) == 0 {
			return false
		}
	}
	u.buckets[h] = append(u.buckets[h], s)
	return true
}
