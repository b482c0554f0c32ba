// SPDX-License-Identifier: MIT

package mat

import (
	"github.com/katalvlaran/bmat/dense"
	"github.com/katalvlaran/bmat/layout"
)

// leafView is a read-only effective view of a leaf used by the kernels.
type leafView struct {
	kind layout.Kind
	dims layout.Dims
	data []float64
}

func viewOf(m *Matrix) leafView {
	return leafView{kind: m.Kind(), dims: m.Dims(), data: m.Payload()}
}

func (v leafView) at(r, c int) float64 {
	off, ok := v.kind.Index(v.dims, r, c)
	if ok {
		return v.data[off]
	}
	if v.kind.Category() == 1 {
		off, _ = v.kind.Index(v.dims, c, r)
		return v.data[off]
	}

	return 0
}

// entries adapts a leafView to layout.Entries.
type entries struct{ leafView }

func (e entries) Kind() layout.Kind       { return e.kind }
func (e entries) At(row, col int) float64 { return e.at(row, col) }

// gather writes the logical values of m into buf (row stride `stride`)
// starting at (r0, c0). Empty cells and omitted zeros are left untouched.
func gather(m *Matrix, buf []float64, stride, r0, c0 int) {
	if m == nil || m.kind == layout.Null {
		return
	}
	if m.blk == nil {
		v := viewOf(m)
		mirror := v.kind.Category() == 1
		v.kind.Each(v.dims, func(off, r, c int) {
			x := v.data[off]
			buf[(r0+r)*stride+c0+c] = x
			if mirror && r != c {
				buf[(r0+c)*stride+c0+r] = x
			}
		})
		return
	}
	rows, cols := m.BlockDims()
	ro, co := offsets(rows), offsets(cols)
	g := m.Dims()
	for i := 0; i < g[0]; i++ {
		for j := 0; j < g[1]; j++ {
			sub, ref := m.cell(i, j)
			if ref == refEmpty {
				continue
			}
			gather(sub, buf, stride, r0+ro[i], c0+co[j])
		}
	}
}

// flat returns the row-major logical values of m.
func flat(m *Matrix) []float64 {
	d := m.FullDims()
	buf := make([]float64, d.Len())
	gather(m, buf, d[1], 0, 0)

	return buf
}

// densify returns m as a single Full leaf (Null stays Null).
func densify(m *Matrix) *Matrix {
	d := m.FullDims()
	if m.IsNull() {
		return NewNull(d)
	}
	out := &Matrix{kind: layout.Full, dims: d, data: flat(m), label: m.label}

	return out
}

// toDense returns the logical values of m as a dense.Dense working copy.
func toDense(m *Matrix) *dense.Dense {
	d := m.FullDims()
	out, err := dense.NewDenseFrom(d[0], d[1], flat(m))
	if err != nil {
		violation("toDense", ErrBadShape, "%s: %v", d, err)
	}

	return out
}

// fromDense wraps a dense result as a Full leaf (no copy).
func fromDense(d *dense.Dense) *Matrix {
	return &Matrix{kind: layout.Full, dims: layout.Dims{d.Rows(), d.Cols()}, data: d.Data()}
}

// convertLeaf returns a leaf of the given kind holding v's values at the
// locations kind stores (Symmetric keeps the upper triangle).
func convertLeaf(v leafView, kind layout.Kind) *Matrix {
	out := New(kind, v.dims, false)
	kind.Each(v.dims, func(off, r, c int) { out.data[off] = v.at(r, c) })

	return out
}

// joinKind returns the smallest kind holding both a and b.
func joinKind(a, b layout.Kind) layout.Kind {
	switch {
	case a.Holds(b):
		return a
	case b.Holds(a):
		return b
	default:
		return layout.Full
	}
}

// productKind returns the kind of a·b for leaf kinds a and b.
func productKind(a, b layout.Kind) layout.Kind {
	switch {
	case a == layout.Null || b == layout.Null:
		return layout.Null
	case a == layout.Diagonal && b == layout.Diagonal:
		return layout.Diagonal
	case a == layout.Diagonal && b != layout.Symmetric:
		return b
	case b == layout.Diagonal && a != layout.Symmetric:
		return a
	case a == b && (a == layout.UpperTriangular || a == layout.LowerTriangular):
		return a
	default:
		return layout.Full
	}
}

// compatibleDims reports whether two partitions agree where both are known.
func compatibleDims(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != 0 && b[i] != 0 && a[i] != b[i] {
			return false
		}
	}

	return true
}

// mergeDims takes the known entry of either partition.
func mergeDims(a, b []int) []int {
	out := append([]int(nil), a...)
	for i := range out {
		if out[i] == 0 && i < len(b) {
			out[i] = b[i]
		}
	}

	return out
}

// knownDims reports whether every entry of the partition is known.
func knownDims(d []int) bool {
	for _, v := range d {
		if v == 0 {
			return false
		}
	}

	return true
}

// sameBlocking reports whether a and b are blocks with identical grid and
// compatible partitions.
func sameBlocking(a, b *Matrix) bool {
	if !a.IsBlock() || !b.IsBlock() || a.Dims() != b.Dims() {
		return false
	}
	ar, ac := a.BlockDims()
	br, bc := b.BlockDims()

	return compatibleDims(ar, br) && compatibleDims(ac, bc)
}
