package tour

import (
	"slices"

	"tspga/internal/graph"
)

// TwoOptEpsilon is the smallest gain a 2-opt move must achieve to be applied.
const TwoOptEpsilon = 1e-9

// TwoOptMove looks for the best 2-opt exchange of the edge leaving position
// start against the edges leaving positions [from, to). When one shortens the
// tour by more than TwoOptEpsilon it is applied and true is returned.
func TwoOptMove(g *graph.Graph, p *Path, start, from, to int) bool {
	n := len(p.nodes)
	if n < 4 {
		return false
	}
	to = min(to, n)
	a := p.nodes[start]
	b := p.Next(start)
	ab := g.Distance(a, b)

	best := TwoOptEpsilon
	bestJ := -1
	for j := max(from, 0); j < to; j++ {
		if j == start || j == (start+1)%n || j == (start+n-1)%n {
			continue
		}
		c := p.nodes[j]
		d := p.Next(j)
		gain := ab + g.Distance(c, d) - g.Distance(a, c) - g.Distance(b, d)
		if gain > best {
			best = gain
			bestJ = j
		}
	}
	if bestJ < 0 {
		return false
	}
	if bestJ > start {
		p.reverseSegment(g, start+1, bestJ)
	} else {
		p.reverseSegment(g, bestJ+1, start)
	}
	return true
}

// reverseSegment reverses positions [i, j] inclusive, keeping a cached
// neighbourhood consistent.
func (p *Path) reverseSegment(g *graph.Graph, i, j int) {
	nb := p.neighborhood
	if nb == nil {
		slices.Reverse(p.nodes[i : j+1])
		return
	}
	u := p.Previous(i)
	w := p.Next(j)
	x := p.nodes[i]
	y := p.nodes[j]

	slices.Reverse(p.nodes[i : j+1])
	for _, node := range p.nodes[i : j+1] {
		nb.flip(node)
	}

	uy := g.Distance(u, y)
	xw := g.Distance(x, w)
	nb.length += uy + xw - g.Distance(u, x) - g.Distance(y, w)
	nb.set(u, Successor, Neighbor{Distance: uy, Node: y})
	nb.set(y, Predecessor, Neighbor{Distance: uy, Node: u})
	nb.set(x, Successor, Neighbor{Distance: xw, Node: w})
	nb.set(w, Predecessor, Neighbor{Distance: xw, Node: x})
}

// TwoOptPass tries each start position in [from, to) against candidates in
// [from, size) and stops after the first improving move.
func TwoOptPass(g *graph.Graph, p *Path, from, to int) bool {
	for start := max(from, 0); start < min(to, len(p.nodes)); start++ {
		if TwoOptMove(g, p, start, from, len(p.nodes)) {
			return true
		}
	}
	return false
}

// TwoOptIterate runs passes until none improves and returns the number of
// moves applied.
func TwoOptIterate(g *graph.Graph, p *Path, from, to int) int {
	moves := 0
	for TwoOptPass(g, p, from, to) {
		moves++
	}
	return moves
}

// TwoOptBudget runs at most passes passes over [start, size).
func TwoOptBudget(g *graph.Graph, p *Path, start, passes int) int {
	moves := 0
	for range passes {
		if !TwoOptPass(g, p, start, len(p.nodes)) {
			break
		}
		moves++
	}
	return moves
}
