// Package graph holds the immutable Euclidean instances the solver works on.
package graph

import (
	"math"
	"math/rand"
)

// CoordinateRange bounds the integer coordinates of randomly generated points.
const CoordinateRange = 5000

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Graph is a complete Euclidean graph; node ids are the dense indices of its
// points. It is read-only after construction and safe for concurrent use.
type Graph struct {
	points []Point
}

func New(points []Point) *Graph {
	return &Graph{points: append([]Point(nil), points...)}
}

// Random returns size points with integer coordinates drawn uniformly from
// [0, CoordinateRange).
func Random(size int, rng *rand.Rand) *Graph {
	points := make([]Point, size)
	for i := range points {
		points[i] = Point{
			X: float64(rng.Intn(CoordinateRange)),
			Y: float64(rng.Intn(CoordinateRange)),
		}
	}
	return &Graph{points: points}
}

func (g *Graph) Size() int {
	return len(g.points)
}

func (g *Graph) Point(node int) Point {
	return g.points[node]
}

// Points returns a copy of the node coordinates in id order.
func (g *Graph) Points() []Point {
	return append([]Point(nil), g.points...)
}

// Distance returns the Euclidean distance between nodes a and b.
func (g *Graph) Distance(a, b int) float64 {
	pa, pb := g.points[a], g.points[b]
	return math.Hypot(pa.X-pb.X, pa.Y-pb.Y)
}
