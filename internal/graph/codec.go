package graph

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var ErrMalformedInput = errors.New("malformed graph input")

// maxPreallocatedPoints bounds the capacity reserved from an unverified
// node count.
const maxPreallocatedPoints = 1 << 16

// Read parses the text format: a node count followed by count "x,y" records.
// Tokens are separated by any whitespace; a comma may be surrounded by spaces.
func Read(r io.Reader) (*Graph, error) {
	tokens := newTokenizer(r)

	header, ok := tokens.next()
	if !ok {
		if err := tokens.err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: missing node count", ErrMalformedInput)
	}
	count, err := strconv.Atoi(header)
	if err != nil || count < 0 {
		return nil, fmt.Errorf("%w: invalid node count %q", ErrMalformedInput, header)
	}

	points := make([]Point, 0, min(count, maxPreallocatedPoints))
	for len(points) < count {
		record, ok := tokens.record()
		if !ok {
			if err := tokens.err(); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("%w: expected %d points, got %d", ErrMalformedInput, count, len(points))
		}
		point, err := parsePoint(record)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrMalformedInput, len(points)+1, err)
		}
		points = append(points, point)
	}
	return &Graph{points: points}, nil
}

type tokenizer struct {
	scanner *bufio.Scanner
	peeked  string
	hasPeek bool
}

func newTokenizer(r io.Reader) *tokenizer {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	return &tokenizer{scanner: scanner}
}

func (t *tokenizer) next() (string, bool) {
	if t.hasPeek {
		t.hasPeek = false
		return t.peeked, true
	}
	if !t.scanner.Scan() {
		return "", false
	}
	return t.scanner.Text(), true
}

func (t *tokenizer) peek() (string, bool) {
	if !t.hasPeek {
		tok, ok := t.next()
		if !ok {
			return "", false
		}
		t.peeked, t.hasPeek = tok, true
	}
	return t.peeked, true
}

// record returns the next "x,y" record, joining tokens split around the
// comma ("1, 2" or "1 ,2").
func (t *tokenizer) record() (string, bool) {
	record, ok := t.next()
	if !ok {
		return "", false
	}
	for {
		following, ok := t.peek()
		if !ok {
			return record, true
		}
		if !strings.HasSuffix(record, ",") && !strings.HasPrefix(following, ",") {
			return record, true
		}
		t.hasPeek = false
		record += following
	}
}

func (t *tokenizer) err() error {
	return t.scanner.Err()
}

func parsePoint(record string) (Point, error) {
	xs, ys, ok := strings.Cut(record, ",")
	if !ok {
		return Point{}, fmt.Errorf("record %q is not x,y", record)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return Point{}, fmt.Errorf("parse x of %q: %v", record, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return Point{}, fmt.Errorf("parse y of %q: %v", record, err)
	}
	return Point{X: x, Y: y}, nil
}

func Load(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open graph %s: %w", path, err)
	}
	defer f.Close()

	g, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read graph %s: %w", path, err)
	}
	return g, nil
}

// Write emits g in the format accepted by Read.
func Write(w io.Writer, g *Graph) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%d\n", g.Size()); err != nil {
		return err
	}
	for _, p := range g.points {
		if _, err := fmt.Fprintf(bw, "%s,%s\n", formatCoordinate(p.X), formatCoordinate(p.Y)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func Save(path string, g *Graph) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create graph %s: %w", path, err)
	}
	if err := Write(f, g); err != nil {
		_ = f.Close()
		return fmt.Errorf("write graph %s: %w", path, err)
	}
	return f.Close()
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
