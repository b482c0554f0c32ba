// SPDX-License-Identifier: MIT

package mat

import (
	"github.com/katalvlaran/bmat/layout"
)

// Submatrix gathers the rows × cols selection of m into a Full leaf and
// returns it reduced with the relative tolerance tol.
// Indices may repeat and appear in any order; an index outside FullDims
// panics with ErrOutOfRange.
func Submatrix(m *Matrix, rows, cols []int, tol float64, opts ...Option) *Matrix {
	d := m.FullDims()
	for _, r := range rows {
		if r < 0 || r >= d[0] {
			violation(opSubmatrix, ErrOutOfRange, "row %d in %s", r, d)
		}
	}
	for _, c := range cols {
		if c < 0 || c >= d[1] {
			violation(opSubmatrix, ErrOutOfRange, "column %d in %s", c, d)
		}
	}
	src := flat(m)
	out := New(layout.Full, layout.Dims{len(rows), len(cols)}, false)
	for i, r := range rows {
		for j, c := range cols {
			out.data[i*len(cols)+j] = src[r*d[1]+c]
		}
	}
	o := gatherOptions(append(append([]Option(nil), opts...), WithTolerance(tol))...)

	return o.finish(out)
}

// Partition re-blocks the logical values of m into a grid of the given kind
// with the given per-row and per-column dims. Positions the kind omits are
// dropped (for Symmetric the upper blocks are kept). Cells are reduced unless
// WithoutReduce is passed; the grid itself is kept as requested.
// Panics with ErrDimensionMismatch when the dims do not sum to FullDims.
func Partition(m *Matrix, kind layout.Kind, rowDims, colDims []int, opts ...Option) *Matrix {
	d := m.FullDims()
	if sum(rowDims) != d[0] || sum(colDims) != d[1] {
		violation(opPartition, ErrDimensionMismatch, "partition %v × %v of %s", rowDims, colDims, d)
	}
	o := gatherOptions(opts...)
	src := flat(m)
	out := NewBlock(kind, rowDims, colDims)
	ro, co := offsets(rowDims), offsets(colDims)
	kind.Each(out.dims, func(off, i, j int) {
		cell := New(layout.Full, layout.Dims{rowDims[i], colDims[j]}, false)
		for r := 0; r < rowDims[i]; r++ {
			copy(cell.data[r*colDims[j]:(r+1)*colDims[j]], src[(ro[i]+r)*d[1]+co[j]:])
		}
		if kind.Category() == 1 && i == j {
			cell = convertLeaf(viewOf(cell), layout.Symmetric)
		}
		out.blk.cells[off] = o.finish(cell)
	})
	out.label = m.label

	return out
}

func sum(v []int) int {
	s := 0
	for _, x := range v {
		s += x
	}

	return s
}

// Convert returns a copy of m whose outermost kind is kind.
// Leaves keep the values kind stores (Symmetric keeps the upper triangle);
// blocks keep the cells at the positions kind stores. The result is not
// reduced. Panics with ErrNonSquare when kind is square and m is not.
func Convert(m *Matrix, kind layout.Kind) *Matrix {
	if m == nil {
		return nil
	}
	var out *Matrix
	switch {
	case kind == layout.Null && m.IsBlock():
		out = NewNull(m.FullDims())
	case !m.IsBlock():
		if kind.Square() && !m.Dims().Square() {
			violation(opConvert, ErrNonSquare, "%s to %s", m, kind)
		}
		out = convertLeaf(viewOf(m), kind)
	default:
		rows, cols := m.BlockDims()
		if kind.Category() == 1 && !equalInts(rows, cols) {
			violation(opConvert, ErrNonSquare, "%s to %s with block dims %v × %v", m, kind, rows, cols)
		}
		out = NewBlock(kind, rows, cols)
		kind.Each(out.dims, func(off, i, j int) {
			sub, ref := m.cell(i, j)
			if ref == refEmpty {
				return
			}
			if kind.Category() == 1 && i == j && !layout.Symmetric.Holds(sub.Kind()) {
				sub = Convert(sub, layout.Symmetric)
			}
			out.blk.cells[off] = bake(sub)
		})
	}
	out.label = m.label

	return out
}

// Flatten returns the logical values of m as a single Full leaf.
func Flatten(m *Matrix) *Matrix {
	if m == nil {
		return nil
	}
	d := m.FullDims()
	out := &Matrix{kind: layout.Full, dims: d, data: flat(m), label: m.label}

	return out
}
