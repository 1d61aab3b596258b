package tour

import "tspga/internal/graph"

const (
	// Successor is the neighbour record index of the next node in tour order.
	Successor = 0
	// Predecessor is the neighbour record index of the previous node.
	Predecessor = 1
)

type Neighbor struct {
	Distance float64
	Node     int
}

// Neighborhood caches, for every node id of the graph, the two nodes adjacent
// to it in a path together with the edge lengths, and the total cycle length.
type Neighborhood struct {
	neighbors []Neighbor
	length    float64
}

// BuildNeighborhood computes the neighbourhood of p in a single pass.
func BuildNeighborhood(g *graph.Graph, p *Path) *Neighborhood {
	n := &Neighborhood{neighbors: make([]Neighbor, 2*g.Size())}
	if len(p.nodes) == 0 {
		return n
	}
	previous := p.Previous(0)
	for _, current := range p.nodes {
		d := g.Distance(previous, current)
		n.neighbors[2*current+Predecessor] = Neighbor{Distance: d, Node: previous}
		n.neighbors[2*previous+Successor] = Neighbor{Distance: d, Node: current}
		n.length += d
		previous = current
	}
	return n
}

// Neighbor returns record index (Successor or Predecessor) of node.
func (n *Neighborhood) Neighbor(node, index int) Neighbor {
	return n.neighbors[2*node+index]
}

func (n *Neighborhood) Length() float64 {
	return n.length
}

func (n *Neighborhood) Clone() *Neighborhood {
	return &Neighborhood{
		neighbors: append([]Neighbor(nil), n.neighbors...),
		length:    n.length,
	}
}

func (n *Neighborhood) set(node, index int, neighbor Neighbor) {
	n.neighbors[2*node+index] = neighbor
}

func (n *Neighborhood) flip(node int) {
	i := 2 * node
	n.neighbors[i], n.neighbors[i+1] = n.neighbors[i+1], n.neighbors[i]
}
