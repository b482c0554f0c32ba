// SPDX-License-Identifier: MIT

// Package mat - addition and scaling.
//
// Dispatch (addScaled):
//   - Null operand        -> copy / scaled copy of the other;
//   - two leaves          -> leaf of joinKind(kinds), one pass over its payload;
//   - matching blocks     -> block of joinKind(grid kinds), cell-wise recursion;
//   - anything else       -> both sides densified to Full leaves.
//
// AI-Hints:
//   - The union of occupied entries is preserved: UT + LT yields Full,
//     Diagonal + Symmetric yields Symmetric.

package mat

import (
	"fmt"

	"github.com/katalvlaran/bmat/internal/parallel"
	"github.com/katalvlaran/bmat/layout"
)

// Job selects how a result is combined into a destination.
type Job byte

// Jobs accepted by AddTo and MultiplyTo.
const (
	Replace    Job = '=' // dst = result
	Accumulate Job = '+' // dst = dst + result
	Subtract   Job = '-' // dst = dst - result
)

// Add returns a + b. Panics with ErrDimensionMismatch unless FullDims agree.
func Add(a, b *Matrix, opts ...Option) *Matrix {
	o := gatherOptions(opts...)

	return o.finish(addScaled(a, b, 1, o))
}

// Sub returns a - b.
func Sub(a, b *Matrix, opts ...Option) *Matrix {
	o := gatherOptions(opts...)

	return o.finish(addScaled(a, b, -1, o))
}

// AddTo combines a + b into dst according to job and returns dst.
// dst is rewritten in place (its envelope is replaced) and keeps its label.
func AddTo(job Job, a, b, dst *Matrix, opts ...Option) *Matrix {
	o := gatherOptions(opts...)

	return combineInto(job, dst, addScaled(a, b, 1, o), o)
}

// combineInto applies job to dst with result r, reduces, and stores into dst.
func combineInto(job Job, dst, r *Matrix, o Options) *Matrix {
	if dst == nil {
		violation(opAdd, ErrDimensionMismatch, "nil destination")
	}
	if dst.FullDims() != r.FullDims() {
		violation(opAdd, ErrDimensionMismatch, "destination %s, result %s", dst.FullDims(), r.FullDims())
	}
	var res *Matrix
	switch job {
	case Replace:
		res = r
	case Accumulate:
		res = addScaled(dst, r, 1, o)
	case Subtract:
		res = addScaled(dst, r, -1, o)
	default:
		panic(matErrorf(opAdd, fmt.Errorf("unknown job %q", byte(job))))
	}
	res = o.finish(res)
	res.label = dst.label
	*dst = *res

	return dst
}

// addScaled returns a + alpha·b without reduction.
func addScaled(a, b *Matrix, alpha float64, o Options) *Matrix {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		return scaleCopy(b, alpha)
	case b == nil:
		return bake(a)
	}
	da, db := a.FullDims(), b.FullDims()
	if da != db {
		violation(opAdd, ErrDimensionMismatch, "%s vs %s", da, db)
	}
	switch {
	case b.IsNull():
		return bake(a)
	case a.IsNull():
		return scaleCopy(b, alpha)
	case !a.IsBlock() && !b.IsBlock():
		return addLeaf(viewOf(a), viewOf(b), alpha, o)
	case sameBlocking(a, b):
		return addBlock(a, b, alpha, o)
	default:
		o.logger.Debug("add densifies", "a", a.String(), "b", b.String())
		return addLeaf(viewOf(densify(a)), viewOf(densify(b)), alpha, o)
	}
}

func addLeaf(va, vb leafView, alpha float64, o Options) *Matrix {
	k := joinKind(va.kind, vb.kind)
	out := New(k, va.dims, false)
	if va.kind == k && vb.kind == k {
		for i := range out.data {
			out.data[i] = va.data[i] + alpha*vb.data[i]
		}
		return out
	}
	d := va.dims
	parallel.For(d[0], func(r int) {
		lo, hi := k.ColBounds(d, r)
		for c := lo; c < hi; c++ {
			if off, ok := k.Index(d, r, c); ok {
				out.data[off] = va.at(r, c) + alpha*vb.at(r, c)
			}
		}
	}, o.par())

	return out
}

func addBlock(a, b *Matrix, alpha float64, o Options) *Matrix {
	ra, ca := a.BlockDims()
	rb, cb := b.BlockDims()
	rows, cols := mergeDims(ra, rb), mergeDims(ca, cb)
	k := joinKind(a.Kind(), b.Kind())
	if k.Category() == 1 && !equalInts(rows, cols) {
		k = layout.Full
	}
	out := NewBlock(k, rows, cols)
	g := out.Dims()
	slots := stored(k, g)
	parallel.For(len(slots), func(s int) {
		i, j := slots[s].i, slots[s].j
		x, rx := a.cell(i, j)
		y, ry := b.cell(i, j)
		if rx == refEmpty && ry == refEmpty {
			return
		}
		out.blk.cells[slots[s].off] = addScaled(x, y, alpha, o)
	}, o.par())
	out.claimAll()

	return out
}

// slot is one stored grid position.
type slot struct{ off, i, j int }

// stored lists the stored positions of kind over g in payload order.
func stored(k layout.Kind, g layout.Dims) []slot {
	out := make([]slot, 0, k.Size(g))
	k.Each(g, func(off, i, j int) { out = append(out, slot{off, i, j}) })

	return out
}

// claimAll records the dims of every cell written directly into blk.cells.
func (m *Matrix) claimAll() {
	m.kind.Each(m.dims, func(off, i, j int) {
		if c := m.blk.cells[off]; c != nil {
			m.blk.claim(m.kind, i, j, c.FullDims())
		}
	})
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// Scale returns value·m.
func Scale(m *Matrix, value float64, opts ...Option) *Matrix {
	o := gatherOptions(opts...)

	return o.finish(scaleCopy(m, value))
}

// ScaleBy multiplies m by value in place and returns m.
// Views sharing m's payload observe the change.
func ScaleBy(m *Matrix, value float64) *Matrix {
	if m == nil {
		return nil
	}
	if m.blk == nil {
		for i := range m.data {
			m.data[i] *= value
		}
		return m
	}
	for _, c := range m.blk.cells {
		ScaleBy(c, value)
	}

	return m
}

// scaleCopy returns a transform-free copy of value·m.
func scaleCopy(m *Matrix, value float64) *Matrix {
	if m == nil {
		return nil
	}

	return ScaleBy(bake(m), value)
}
