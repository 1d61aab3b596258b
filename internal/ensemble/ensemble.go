// Package ensemble provides a fixed-universe membership set backed by a packed
// bit array. It is used by the tour operators to track visited or already
// placed nodes in O(1) per query.
package ensemble

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

const (
	wordShift uint = 6
	wordMask  uint = 63
)

// ErrOutOfRange is the panic value (wrapped) raised when an element falls
// outside the universe of an Ensemble.
var ErrOutOfRange = errors.New("ensemble: element out of range")

// Ensemble is a set of small non-negative integers below a fixed universe size.
// It is not safe for concurrent mutation.
type Ensemble struct {
	size  int
	words []uint64
}

// New returns an empty ensemble over the universe [0, size).
func New(size int) *Ensemble {
	if size < 0 {
		panic(fmt.Errorf("%w: negative universe size %d", ErrOutOfRange, size))
	}
	return &Ensemble{size: size, words: make([]uint64, (size+63)>>wordShift)}
}

// Of returns an ensemble containing elements, sized to hold the largest one.
func Of(elements []int) *Ensemble {
	maxElement := -1
	for _, element := range elements {
		if element > maxElement {
			maxElement = element
		}
	}
	e := New(maxElement + 1)
	e.AddAll(elements)
	return e
}

// Size returns the universe size.
func (e *Ensemble) Size() int {
	return e.size
}

func (e *Ensemble) check(element int) {
	if element < 0 || element >= e.size {
		panic(fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, element, e.size))
	}
}

// Add inserts element.
func (e *Ensemble) Add(element int) {
	e.check(element)
	e.words[uint(element)>>wordShift] |= 1 << (uint(element) & wordMask)
}

// AddAll inserts every element of elements.
func (e *Ensemble) AddAll(elements []int) {
	for _, element := range elements {
		e.Add(element)
	}
}

// Contains reports whether element was added and not removed since.
func (e *Ensemble) Contains(element int) bool {
	e.check(element)
	return e.words[uint(element)>>wordShift]&(1<<(uint(element)&wordMask)) != 0
}

// Remove clears element. Removing an absent element is a no-op.
func (e *Ensemble) Remove(element int) {
	e.check(element)
	e.words[uint(element)>>wordShift] &^= 1 << (uint(element) & wordMask)
}

// RemoveAll clears every element of elements.
func (e *Ensemble) RemoveAll(elements []int) {
	for _, element := range elements {
		e.Remove(element)
	}
}

// Reset clears every element while keeping the universe.
func (e *Ensemble) Reset() {
	clear(e.words)
}

// Len returns the number of elements present.
func (e *Ensemble) Len() int {
	n := 0
	for _, word := range e.words {
		n += bits.OnesCount64(word)
	}
	return n
}

func (e *Ensemble) String() string {
	var b strings.Builder
	b.WriteByte('[')
	first := true
	for element := 0; element < e.size; element++ {
		if !e.Contains(element) {
			continue
		}
		if !first {
			b.WriteByte('-')
		}
		first = false
		b.WriteString(strconv.Itoa(element))
	}
	b.WriteByte(']')
	return b.String()
}
