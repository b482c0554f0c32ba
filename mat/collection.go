// SPDX-License-Identifier: MIT

package mat

import (
	"iter"

	"github.com/katalvlaran/bmat/layout"
)

// Collection is an ordered list of matrices addressed by position or label.
// Insertion order is preserved; labels need not be unique (lookups return the
// first match). A Collection is not safe for concurrent mutation.
type Collection struct {
	items []*Matrix
}

// NewCollection returns a collection holding ms in order (not copied).
func NewCollection(ms ...*Matrix) *Collection {
	return &Collection{items: append([]*Matrix(nil), ms...)}
}

// Len returns the number of matrices.
func (c *Collection) Len() int { return len(c.items) }

// Append adds m at the end and returns its position.
func (c *Collection) Append(m *Matrix) int {
	c.items = append(c.items, m)
	return len(c.items) - 1
}

// AppendEmpty creates a zero matrix with New, labels it, appends it and
// returns it for filling.
func (c *Collection) AppendEmpty(kind layout.Kind, dims layout.Dims, isBlock bool, label string) *Matrix {
	m := New(kind, dims, isBlock)
	m.label = label
	c.items = append(c.items, m)

	return m
}

// At returns the matrix at position i; panics with ErrOutOfRange.
func (c *Collection) At(i int) *Matrix {
	c.check(i)
	return c.items[i]
}

// Set replaces the matrix at position i; panics with ErrOutOfRange.
func (c *Collection) Set(i int, m *Matrix) {
	c.check(i)
	c.items[i] = m
}

func (c *Collection) check(i int) {
	if i < 0 || i >= len(c.items) {
		violation(opCollection, ErrOutOfRange, "position %d of %d", i, len(c.items))
	}
}

// Index returns the position of the first matrix labeled label, or -1.
func (c *Collection) Index(label string) int {
	for i, m := range c.items {
		if m.Label() == label {
			return i
		}
	}

	return -1
}

// ByLabel returns the first matrix labeled label.
func (c *Collection) ByLabel(label string) (*Matrix, bool) {
	if i := c.Index(label); i >= 0 {
		return c.items[i], true
	}

	return nil, false
}

// Labels returns the labels in order ("" for unlabeled entries).
func (c *Collection) Labels() []string {
	out := make([]string, len(c.items))
	for i, m := range c.items {
		out[i] = m.Label()
	}

	return out
}

// Concat appends the matrices of every other collection, in order.
// The matrices are shared, not copied.
func (c *Collection) Concat(others ...*Collection) {
	for _, o := range others {
		if o != nil {
			c.items = append(c.items, o.items...)
		}
	}
}

// All iterates positions and matrices in order.
func (c *Collection) All() iter.Seq2[int, *Matrix] {
	return func(yield func(int, *Matrix) bool) {
		for i, m := range c.items {
			if !yield(i, m) {
				return
			}
		}
	}
}
