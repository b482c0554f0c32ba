// SPDX-License-Identifier: MIT

// Package mat - structural reduction.
//
// Purpose:
//   - Find, bottom-up, the cheapest storage kind that represents a matrix
//     within tolerance, collapse trivial block nesting, and drop empty blocks.
//
// Algorithm:
//   - Leaf: scan layout.ReduceOrder (Null < Diagonal < Symmetric < UT < LT < Full),
//     skipping square kinds for non-square dims; the first kind whose
//     membership test holds wins and the payload is converted into it
//     (Symmetric keeps the upper triangle).
//   - Block: reduce the owned cells in parallel, then
//     all cells Null  -> Null leaf with the full element dims;
//     1×1 grid        -> the reduced child itself;
//     otherwise scan the grid kinds with block-level membership tests.
//
// Tolerance:
//   - Adaptive: tol·Σ|v|/count over the stored values of the matrix being
//     tested, so the same tol works for matrices of any magnitude.

package mat

import (
	"math"

	"github.com/katalvlaran/bmat/internal/parallel"
	"github.com/katalvlaran/bmat/layout"
)

// Reduce returns the reduced form of m as a new matrix; m is not modified.
// tol is the relative tolerance (see package notes). Reduce is idempotent.
func Reduce(m *Matrix, tol float64, opts ...Option) *Matrix {
	o := gatherOptions(append(append([]Option(nil), opts...), WithTolerance(tol))...)

	return reduce(m, o)
}

func reduce(m *Matrix, o Options) *Matrix {
	if m == nil {
		return nil
	}
	var out *Matrix
	if m.blk == nil {
		out = reduceLeaf(m, o)
	} else {
		out = reduceBlock(m, o)
	}
	out.label = m.label
	out.SetSource(m.source)

	return out
}

// sumAbs returns Σ|v| and the number of stored values of m.
func sumAbs(m *Matrix) (float64, int) {
	if m == nil {
		return 0, 0
	}
	if m.blk == nil {
		s := 0.0
		for _, x := range m.data {
			s += math.Abs(x)
		}
		return s, len(m.data)
	}
	var s float64
	var n int
	for _, c := range m.blk.cells {
		cs, cn := sumAbs(c)
		s += cs
		n += cn
	}

	return s, n
}

// adaptiveTol returns tol·Σ|v|/count for m.
func adaptiveTol(m *Matrix, tol float64) float64 {
	s, n := sumAbs(m)
	if n == 0 {
		return 0
	}

	return tol * s / float64(n)
}

// holdsLeaf tests membership of the leaf view in cand.
func holdsLeaf(cand layout.Kind, e entries, atol float64) bool {
	if cand.Square() && !e.dims.Square() {
		return false
	}
	if cand.CouldOmit(e, e.dims, nil, atol) {
		return true
	}
	var loc layout.Loc
	for loc.Row = 0; loc.Row < e.dims[0]; loc.Row++ {
		for loc.Col = 0; loc.Col < e.dims[1]; loc.Col++ {
			if !cand.CouldOmit(e, e.dims, &loc, atol) {
				return false
			}
		}
	}

	return true
}

func reduceLeaf(m *Matrix, o Options) *Matrix {
	v := viewOf(m)
	if v.kind == layout.Null {
		return NewNull(v.dims)
	}
	s, n := sumAbs(m)
	if s == 0 {
		return NewNull(v.dims)
	}
	atol := o.tol * s / float64(n)
	e := entries{v}
	for _, cand := range layout.ReduceOrder {
		if !holdsLeaf(cand, e, atol) {
			continue
		}
		if cand != v.kind {
			o.logger.Debug("reduce leaf", "from", v.kind.String(), "to", cand.String(), "dims", v.dims.String())
		}
		return convertLeaf(v, cand)
	}

	return convertLeaf(v, layout.Full)
}

func reduceBlock(m *Matrix, o Options) *Matrix {
	g, k := m.Dims(), m.Kind()
	rows, cols := m.BlockDims()

	// reduce owned cells; red is indexed by k's payload offset
	slots := stored(k, g)
	red := make([]*Matrix, len(slots))
	parallel.For(len(slots), func(s int) {
		if sub, ref := m.cell(slots[s].i, slots[s].j); ref != refEmpty {
			red[s] = reduce(sub, o)
		}
	}, o.par())

	get := func(i, j int) *Matrix {
		if off, ok := k.Index(g, i, j); ok {
			return red[off]
		}
		if k.Category() == 1 {
			off, _ := k.Index(g, j, i)
			if red[off] != nil {
				return red[off].withTrafos(layout.Transforms{layout.Transpose})
			}
		}
		return nil
	}

	allNull := true
	for _, c := range red {
		if !c.IsNull() {
			allNull = false
			break
		}
	}
	if allNull {
		o.logger.Debug("reduce block to null", "grid", g.String())
		return NewNull(m.FullDims())
	}
	if g == (layout.Dims{1, 1}) {
		return red[0]
	}

	atol := adaptiveTol(m, o.tol)
	var chosen layout.Kind
	for _, cand := range layout.ReduceOrder {
		if cand == layout.Null || (cand.Square() && !g.Square()) {
			continue
		}
		if holdsGrid(cand, g, rows, cols, get, atol) {
			chosen = cand
			break
		}
	}
	if chosen != k {
		o.logger.Debug("reduce grid", "from", k.String(), "to", chosen.String(), "grid", g.String())
	}

	if chosen.Category() == 1 {
		cols = rows
	}
	out := NewBlock(chosen, rows, cols)
	chosen.Each(g, func(_, i, j int) {
		x := get(i, j)
		if x == nil {
			return
		}
		if len(x.trafos) > 0 {
			x = bake(x)
		}
		out.AdoptBlock(i, j, x)
	})

	return out
}

// holdsGrid tests the block-level membership of the reduced grid in cand.
func holdsGrid(cand layout.Kind, g layout.Dims, rows, cols []int, get func(i, j int) *Matrix, atol float64) bool {
	switch cand {
	case layout.Full:
		return true
	case layout.Diagonal, layout.UpperTriangular, layout.LowerTriangular:
		for i := 0; i < g[0]; i++ {
			for j := 0; j < g[1]; j++ {
				if cand.Omits(g, i, j) && !get(i, j).IsNull() {
					return false
				}
			}
		}
		return true
	case layout.Symmetric:
		for i := range rows {
			if rows[i] != cols[i] {
				return false
			}
		}
		for i := 0; i < g[0]; i++ {
			if !layout.Symmetric.Holds(get(i, i).Kind()) {
				return false
			}
			for j := i + 1; j < g[1]; j++ {
				if !mirrorClose(get(i, j), get(j, i), rows[i], cols[j], atol) {
					return false
				}
			}
		}
		return true
	}

	return false
}

// mirrorClose reports a ≈ bᵀ within atol, where a is r×c and nil reads as zero.
func mirrorClose(a, b *Matrix, r, c int, atol float64) bool {
	if a.IsNull() && b.IsNull() {
		return true
	}
	var va, vb float64
	for x := 0; x < r; x++ {
		for y := 0; y < c; y++ {
			va, vb = 0, 0
			if !a.IsNull() {
				va = a.Get(x, y)
			}
			if !b.IsNull() {
				vb = b.Get(y, x)
			}
			if math.Abs(va-vb) > atol {
				return false
			}
		}
	}

	return true
}
