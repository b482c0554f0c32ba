// SPDX-License-Identifier: MIT

package mat

import "github.com/katalvlaran/bmat/layout"

// FastTranspose returns a transposed view of m in O(1): the payload and
// cells are shared and layout.Transpose is appended to the view's transforms.
// Applying it twice restores the original transform list.
// No reduction is performed: reduction commutes with transposition, so a
// reduced input stays reduced.
func FastTranspose(m *Matrix) *Matrix {
	if m == nil {
		return nil
	}

	return m.withTrafos(layout.Transforms{layout.Transpose})
}

// Transpose returns the physical transpose of m: a new matrix without
// pending transforms whose kind, dims, payload and cells are rewritten.
func Transpose(m *Matrix, opts ...Option) *Matrix {
	if m == nil {
		return nil
	}
	o := gatherOptions(opts...)

	return o.finish(bake(FastTranspose(m)))
}

// Materialize returns a deep copy of m with every pending transform baked
// into kind, dims, payload and cells.
func Materialize(m *Matrix) *Matrix { return bake(m) }

// bake rewrites m into a transform-free deep copy.
func bake(m *Matrix) *Matrix {
	if m == nil {
		return nil
	}
	var out *Matrix
	if m.blk == nil {
		out = convertLeaf(viewOf(m), m.Kind())
	} else {
		rows, cols := m.BlockDims()
		k, g := m.Kind(), m.Dims()
		out = New(k, g, true)
		copy(out.blk.rdim, rows)
		copy(out.blk.cdim, cols)
		k.Each(g, func(off, i, j int) {
			if sub, ref := m.cell(i, j); ref != refEmpty {
				out.blk.cells[off] = bake(sub)
			}
		})
	}
	out.label = m.label
	out.SetSource(m.source)

	return out
}
