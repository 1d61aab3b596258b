package tour

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"tspga/internal/graph"
)

var ErrMalformedSolution = errors.New("malformed solution")

// WriteSolution emits one "node,x,y" line per tour position.
func WriteSolution(w io.Writer, g *graph.Graph, p *Path) error {
	bw := bufio.NewWriter(w)
	for _, node := range p.nodes {
		pt := g.Point(node)
		if _, err := fmt.Fprintf(bw, "%d,%f,%f\n", node, pt.X, pt.Y); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func SaveSolution(path string, g *graph.Graph, p *Path) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create solution %s: %w", path, err)
	}
	if err := WriteSolution(f, g, p); err != nil {
		_ = f.Close()
		return fmt.Errorf("write solution %s: %w", path, err)
	}
	return f.Close()
}

// ReadSolution parses the output of WriteSolution. The returned graph holds
// the points indexed by node id; the node ids must form a permutation.
func ReadSolution(r io.Reader) (*graph.Graph, *Path, error) {
	scanner := bufio.NewScanner(r)
	var order []int
	byNode := map[int]graph.Point{}
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		fields := strings.Split(text, ",")
		if len(fields) != 3 {
			return nil, nil, fmt.Errorf("%w: line %d: want node,x,y, got %q", ErrMalformedSolution, line, text)
		}
		node, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil || node < 0 {
			return nil, nil, fmt.Errorf("%w: line %d: invalid node %q", ErrMalformedSolution, line, fields[0])
		}
		x, errX := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
		if errX != nil || errY != nil {
			return nil, nil, fmt.Errorf("%w: line %d: invalid coordinates %q", ErrMalformedSolution, line, text)
		}
		if _, dup := byNode[node]; dup {
			return nil, nil, fmt.Errorf("%w: line %d: node %d repeated", ErrMalformedSolution, line, node)
		}
		byNode[node] = graph.Point{X: x, Y: y}
		order = append(order, node)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}

	points := make([]graph.Point, len(order))
	for node, pt := range byNode {
		if node >= len(points) {
			return nil, nil, fmt.Errorf("%w: node %d out of range for %d nodes", ErrMalformedSolution, node, len(points))
		}
		points[node] = pt
	}
	return graph.New(points), Of(order), nil
}

func LoadSolution(path string) (*graph.Graph, *Path, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open solution %s: %w", path, err)
	}
	defer f.Close()

	g, p, err := ReadSolution(f)
	if err != nil {
		return nil, nil, fmt.Errorf("read solution %s: %w", path, err)
	}
	return g, p, nil
}
