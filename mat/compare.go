// SPDX-License-Identifier: MIT

package mat

import (
	"math"

	"github.com/katalvlaran/bmat/internal/parallel"
	"github.com/katalvlaran/bmat/layout"
)

// CompareValues reports whether a and b have equal FullDims and every logical
// element differs by at most tol (absolute). Rows are compared in parallel.
func CompareValues(a, b *Matrix, tol float64, opts ...Option) bool {
	d := a.FullDims()
	if d != b.FullDims() {
		return false
	}
	if d.Len() == 0 {
		return true
	}
	o := gatherOptions(opts...)
	x, y := flat(a), flat(b)
	bad := make([]bool, d[0])
	parallel.For(d[0], func(r int) {
		row := r * d[1]
		for c := 0; c < d[1]; c++ {
			if !(math.Abs(x[row+c]-y[row+c]) <= tol) {
				bad[r] = true
				return
			}
		}
	}, o.par())
	for _, v := range bad {
		if v {
			return false
		}
	}

	return true
}

// CompareStructure reports whether a and b share the same block structure:
// equal grids, agreeing block dims wherever both sides know them, and the
// same structure recursively in every cell realized on both sides.
// Leaf kinds are not compared; a Null leaf matches any block of its dims.
func CompareStructure(a, b *Matrix) bool {
	if a == nil || b == nil {
		return true
	}
	if !dimsAgree(a.FullDims(), b.FullDims()) {
		return false
	}
	if a.IsNull() || b.IsNull() {
		return true
	}
	if a.IsBlock() != b.IsBlock() {
		return false
	}
	if !a.IsBlock() {
		return true
	}
	if !sameBlocking(a, b) {
		return false
	}
	g := a.Dims()
	for i := 0; i < g[0]; i++ {
		for j := 0; j < g[1]; j++ {
			x, rx := a.cell(i, j)
			y, ry := b.cell(i, j)
			if rx == refEmpty || ry == refEmpty {
				continue
			}
			if !CompareStructure(x, y) {
				return false
			}
		}
	}

	return true
}

// CompareStructureRowsToColumns reports whether the column blocking of a
// matches the row blocking of b, i.e. whether a·b can be computed block-wise.
func CompareStructureRowsToColumns(a, b *Matrix) bool {
	if a == nil || b == nil {
		return true
	}
	if !knownAgree(a.FullDims()[1], b.FullDims()[0]) {
		return false
	}
	if a.IsNull() || b.IsNull() || (!a.IsBlock() && !b.IsBlock()) {
		return true
	}
	if !a.IsBlock() || !b.IsBlock() {
		return false
	}
	if !conformable(a, b) {
		return false
	}
	ga, gb := a.Dims(), b.Dims()
	for k := 0; k < ga[1]; k++ {
		x := firstRealized(ga[0], func(i int) (*Matrix, refKind) { return a.cell(i, k) })
		y := firstRealized(gb[1], func(j int) (*Matrix, refKind) { return b.cell(k, j) })
		if x != nil && y != nil && !CompareStructureRowsToColumns(x, y) {
			return false
		}
	}

	return true
}

func firstRealized(n int, at func(int) (*Matrix, refKind)) *Matrix {
	for i := 0; i < n; i++ {
		if m, ref := at(i); ref != refEmpty && !m.IsNull() {
			return m
		}
	}

	return nil
}

func dimsAgree(a, b layout.Dims) bool {
	return knownAgree(a[0], b[0]) && knownAgree(a[1], b[1])
}

// knownAgree treats 0 as unknown.
func knownAgree(a, b int) bool { return a == 0 || b == 0 || a == b }
