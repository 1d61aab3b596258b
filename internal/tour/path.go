// Package tour implements cyclic node permutations over a graph, their
// neighbourhood cache and the 2-opt local search.
package tour

import (
	"cmp"
	"fmt"
	"math/rand"
	"slices"
	"strconv"
	"strings"

	"tspga/internal/ensemble"
	"tspga/internal/graph"
)

// Path is an ordered sequence of distinct node ids read as a closed cycle.
//
// A path may carry a Neighborhood. Operations that change adjacency either keep
// the cache consistent (Shift, SetStartingNode, Reverse, Mirror, 2-opt moves)
// or drop it (Swap, ReverseRange, ReverseFrom).
type Path struct {
	nodes        []int
	neighborhood *Neighborhood
}

// Of returns a path visiting nodes in order. The slice is copied.
func Of(nodes []int) *Path {
	return &Path{nodes: append([]int(nil), nodes...)}
}

// Simple returns the identity permutation of the graph nodes.
func Simple(g *graph.Graph) *Path {
	nodes := make([]int, g.Size())
	for i := range nodes {
		nodes[i] = i
	}
	return &Path{nodes: nodes}
}

// Random returns a uniformly shuffled permutation of the graph nodes.
func Random(g *graph.Graph, rng *rand.Rand) *Path {
	p := Simple(g)
	for i := len(p.nodes) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		p.nodes[i], p.nodes[j] = p.nodes[j], p.nodes[i]
	}
	return p
}

func (p *Path) Size() int {
	return len(p.nodes)
}

// At returns the node at position i.
func (p *Path) At(i int) int {
	return p.nodes[i]
}

// Nodes returns a copy of the node order.
func (p *Path) Nodes() []int {
	return append([]int(nil), p.nodes...)
}

// Next returns the node following position i, wrapping at the end.
func (p *Path) Next(i int) int {
	if i >= len(p.nodes)-1 {
		return p.nodes[(i+1)%len(p.nodes)]
	}
	return p.nodes[i+1]
}

// Previous returns the node preceding position i, wrapping at the start.
func (p *Path) Previous(i int) int {
	if i <= 0 {
		return p.nodes[len(p.nodes)-1]
	}
	return p.nodes[i-1]
}

// Position returns the position of node, or -1 when absent.
func (p *Path) Position(node int) int {
	return slices.Index(p.nodes, node)
}

// Swap exchanges the nodes at positions i and j.
func (p *Path) Swap(i, j int) {
	p.nodes[i], p.nodes[j] = p.nodes[j], p.nodes[i]
	p.neighborhood = nil
}

// Shift rotates the path left by k positions.
func (p *Path) Shift(k int) {
	n := len(p.nodes)
	if n == 0 {
		return
	}
	k = ((k % n) + n) % n
	if k == 0 {
		return
	}
	rotated := slices.Concat(p.nodes[k:], p.nodes[:k])
	copy(p.nodes, rotated)
}

// SetStartingNode rotates the path so that node is at position 0.
func (p *Path) SetStartingNode(node int) {
	pos := p.Position(node)
	if pos < 0 {
		panic(fmt.Sprintf("tour: node %d not in path", node))
	}
	p.Shift(pos)
}

// ReverseRange reverses the nodes in positions [from, to). The bounds are
// swapped when from > to; from == to is a no-op.
func (p *Path) ReverseRange(from, to int) {
	if from == to {
		return
	}
	if from > to {
		from, to = to, from
	}
	if from < 0 || to > len(p.nodes) {
		panic(fmt.Sprintf("tour: reverse range [%d,%d) out of bounds for size %d", from, to, len(p.nodes)))
	}
	slices.Reverse(p.nodes[from:to])
	p.neighborhood = nil
}

// ReverseFrom reverses positions [from, size).
func (p *Path) ReverseFrom(from int) {
	p.ReverseRange(from, len(p.nodes))
}

// Reverse reverses the whole path. The cycle is unchanged, only its
// orientation flips, so the neighbourhood is kept.
func (p *Path) Reverse() {
	slices.Reverse(p.nodes)
	p.flipNeighborhood()
}

// Mirror reverses positions [1, size): the starting node stays in place and
// the cycle is walked in the opposite direction.
func (p *Path) Mirror() {
	if len(p.nodes) < 2 {
		return
	}
	slices.Reverse(p.nodes[1:])
	p.flipNeighborhood()
}

func (p *Path) flipNeighborhood() {
	if p.neighborhood == nil {
		return
	}
	for _, node := range p.nodes {
		p.neighborhood.flip(node)
	}
}

// Neighborhood returns the cached neighbourhood, or nil.
func (p *Path) Neighborhood() *Neighborhood {
	return p.neighborhood
}

// CacheNeighborhood builds and stores the neighbourhood of p.
func (p *Path) CacheNeighborhood(g *graph.Graph) *Neighborhood {
	p.neighborhood = BuildNeighborhood(g, p)
	return p.neighborhood
}

func (p *Path) InvalidateNeighborhood() {
	p.neighborhood = nil
}

// Length returns the closed-cycle length. The cached value is used when
// present; otherwise it is computed without being cached.
func (p *Path) Length(g *graph.Graph) float64 {
	if p.neighborhood != nil {
		return p.neighborhood.length
	}
	return BuildNeighborhood(g, p).length
}

// Clone returns a deep copy, including the neighbourhood cache.
func (p *Path) Clone() *Path {
	c := &Path{nodes: append([]int(nil), p.nodes...)}
	if p.neighborhood != nil {
		c.neighborhood = p.neighborhood.Clone()
	}
	return c
}

// FirstNotIn returns the first node, scanning cyclically from position from,
// that is absent from set.
func (p *Path) FirstNotIn(set *ensemble.Ensemble, from int) (int, bool) {
	n := len(p.nodes)
	for i := 0; i < n; i++ {
		node := p.nodes[(i+from)%n]
		if !set.Contains(node) {
			return node, true
		}
	}
	return -1, false
}

func (p *Path) String() string {
	var b strings.Builder
	b.WriteString("Path[size=")
	b.WriteString(strconv.Itoa(len(p.nodes)))
	b.WriteString(",nodes=")
	for i, node := range p.nodes {
		if i > 0 {
			b.WriteByte('-')
		}
		b.WriteString(strconv.Itoa(node))
	}
	b.WriteByte(']')
	return b.String()
}

// Compare orders paths by size, then lexicographically by node sequence.
func Compare(a, b *Path) int {
	if c := cmp.Compare(len(a.nodes), len(b.nodes)); c != 0 {
		return c
	}
	return slices.Compare(a.nodes, b.nodes)
}

// ExtractExcluding walks p cyclically from position from and collects, in
// order, up to count nodes that are not in set.
func ExtractExcluding(p *Path, set *ensemble.Ensemble, from, count int) *Path {
	out := &Path{nodes: make([]int, 0, max(count, 0))}
	n := len(p.nodes)
	for i := 0; i < n && len(out.nodes) < count; i++ {
		node := p.nodes[(i+from)%n]
		if !set.Contains(node) {
			out.nodes = append(out.nodes, node)
		}
	}
	return out
}

// Concat joins paths in order into a new path.
func Concat(paths []*Path) *Path {
	total := 0
	for _, p := range paths {
		total += len(p.nodes)
	}
	nodes := make([]int, 0, total)
	for _, p := range paths {
		nodes = append(nodes, p.nodes...)
	}
	return &Path{nodes: nodes}
}
