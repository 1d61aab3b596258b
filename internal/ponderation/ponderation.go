// Package ponderation implements roulette-wheel selection over a small dense
// index space.
package ponderation

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// ErrEmpty is the panic value raised by Draw when every weight is zero.
var ErrEmpty = errors.New("ponderation: draw with zero total weight")

// ErrInvalidWeight is the panic value (wrapped) raised for negative, NaN or
// infinite weights.
var ErrInvalidWeight = errors.New("ponderation: invalid weight")

// Ponderation is a fixed-size table of non-negative weights with a running
// total, used to draw indices proportionally to their weight.
type Ponderation struct {
	weights []float64
	sum     float64
}

// New returns a table of size weights, all zero.
func New(size int) *Ponderation {
	return &Ponderation{weights: make([]float64, size)}
}

// Reset sets every weight and the total to zero.
func (p *Ponderation) Reset() {
	clear(p.weights)
	p.sum = 0
}

// Set assigns weight to index, replacing any previous weight.
func (p *Ponderation) Set(index int, weight float64) {
	if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		panic(fmt.Errorf("%w: %v at index %d", ErrInvalidWeight, weight, index))
	}
	p.sum += weight - p.weights[index]
	p.weights[index] = weight
	if p.sum < 0 {
		// Rounding residue after replacing the last non-zero weight.
		p.sum = 0
	}
}

// Weight returns the weight at index.
func (p *Ponderation) Weight(index int) float64 {
	return p.weights[index]
}

// Total returns the sum of all weights.
func (p *Ponderation) Total() float64 {
	return p.sum
}

// Len returns the number of weighted indices.
func (p *Ponderation) Len() int {
	return len(p.weights)
}

// Draw returns an index with probability proportional to its weight. Only
// indices with a positive weight are ever returned.
func (p *Ponderation) Draw(rng *rand.Rand) int {
	if p.sum <= 0 {
		panic(ErrEmpty)
	}
	pick := rng.Float64() * p.sum
	acc := 0.0
	last := -1
	for i, weight := range p.weights {
		if weight <= 0 {
			continue
		}
		acc += weight
		last = i
		if pick <= acc {
			return i
		}
	}
	if last < 0 {
		panic(ErrEmpty)
	}
	return last
}
