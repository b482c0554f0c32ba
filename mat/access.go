// SPDX-License-Identifier: MIT

package mat

import (
	"github.com/katalvlaran/bmat/layout"
)

// Get returns the element at the effective location (row, col).
// MAIN DESCRIPTION:
//   - nil, Null, structurally omitted category-0 entries and empty block
//     cells read as 0.
//   - Symmetric omitted entries read their mirror.
//   - Blocks resolve the cell through the cumulative block dims and delegate.
//
// Behavior highlights:
//   - Panics with ErrOutOfRange outside FullDims.
//
// Complexity:
//   - Time O(depth · grid) worst case (linear scan of block dims per level).
func (m *Matrix) Get(row, col int) float64 {
	if m == nil {
		return 0
	}
	m.checkElem(opGet, row, col)
	r, c := m.trafos.Raw(row, col)

	return m.rawGet(r, c)
}

// Set assigns v at the effective location (row, col).
// A Null target, an entry the effective kind omits (including the mirrored
// half of a Symmetric matrix) and an unset cell are silent no-ops.
// Panics with ErrOutOfRange outside FullDims.
func (m *Matrix) Set(row, col int, v float64) {
	if m == nil || m.kind == layout.Null {
		return
	}
	m.checkElem("Set", row, col)
	if m.blk == nil {
		if _, ok := m.Kind().Index(m.Dims(), row, col); !ok {
			return
		}
		r, c := m.trafos.Raw(row, col)
		off, ok := m.kind.Index(m.dims, r, c)
		if !ok {
			// a transposed Symmetric leaf stores (row, col) at the raw mirror
			if m.kind.Category() != 1 {
				return
			}
			off, _ = m.kind.Index(m.dims, c, r)
		}
		m.data[off] = v
		return
	}
	rows, cols := m.blk.rdim, m.blk.cdim
	if m.swapped() {
		rows, cols = cols, rows
	}
	i, lr := locateDim(rows, row)
	j, lc := locateDim(cols, col)
	if _, ok := m.Kind().Index(m.Dims(), i, j); !ok {
		return
	}
	if sub, ref := m.cell(i, j); ref != refEmpty {
		sub.Set(lr, lc, v)
	}
}

func (m *Matrix) checkElem(tag string, row, col int) {
	d := m.FullDims()
	if row < 0 || row >= d[0] || col < 0 || col >= d[1] {
		violation(tag, ErrOutOfRange, "(%d,%d) in %s", row, col, d)
	}
}

// rawGet reads at a raw location.
func (m *Matrix) rawGet(r, c int) float64 {
	if m.blk == nil {
		off, ok := m.kind.Index(m.dims, r, c)
		if ok {
			return m.data[off]
		}
		if m.kind.Category() == 1 {
			off, _ = m.kind.Index(m.dims, c, r)
			return m.data[off]
		}
		return 0
	}
	i, lr := locateDim(m.blk.rdim, r)
	j, lc := locateDim(m.blk.cdim, c)
	sub, ref := m.rawCell(i, j)
	switch ref {
	case refOwned:
		return sub.Get(lr, lc)
	case refMirrored:
		return sub.Get(lc, lr)
	default:
		return 0
	}
}

// locateDim maps x to (block index, local offset) over cumulative dims.
func locateDim(dims []int, x int) (int, int) {
	for i, d := range dims {
		if x < d {
			return i, x
		}
		x -= d
	}
	violation(opGet, ErrOutOfRange, "offset beyond known block dims %v", dims)

	return 0, 0
}

// offsets returns the cumulative start of every block plus the total.
func offsets(dims []int) []int {
	out := make([]int, len(dims)+1)
	for i, d := range dims {
		out[i+1] = out[i] + d
	}

	return out
}

// rawCell resolves the raw grid position (i, j) by the representation rule.
func (m *Matrix) rawCell(i, j int) (*Matrix, refKind) {
	if off, ok := m.kind.Index(m.dims, i, j); ok {
		if c := m.blk.cells[off]; c != nil {
			return c, refOwned
		}
		return nil, refEmpty
	}
	if m.kind.Category() == 1 {
		off, _ := m.kind.Index(m.dims, j, i)
		if c := m.blk.cells[off]; c != nil {
			return c, refMirrored
		}
	}

	return nil, refEmpty
}

// cell resolves the effective grid position (i, j). The returned matrix is
// never nil: empty cells come back as Null placeholders.
func (m *Matrix) cell(i, j int) (*Matrix, refKind) {
	if m.blk == nil {
		violation(opGetBlock, ErrNotBlock, "%s", m)
	}
	d := m.Dims()
	if i < 0 || i >= d[0] || j < 0 || j >= d[1] {
		violation(opGetBlock, ErrOutOfRange, "(%d,%d) in grid %s", i, j, d)
	}
	ri, rj := m.trafos.Raw(i, j)
	sub, ref := m.rawCell(ri, rj)
	switch ref {
	case refOwned:
		if len(m.trafos) == 0 {
			return sub, ref
		}
		return sub.withTrafos(m.trafos), ref
	case refMirrored:
		return sub.withTrafos(layout.Transforms{layout.Transpose}.Concat(m.trafos)), ref
	default:
		return NewNull(m.trafos.Dims(layout.Dims{m.blk.rdim[ri], m.blk.cdim[rj]})), ref
	}
}

// GetBlock returns the sub-matrix at the effective grid position (i, j).
// MAIN DESCRIPTION:
//   - owned cell: the cell itself (a view when m carries transforms), so
//     writes through it reach m;
//   - mirrored cell: the transposed view of the stored counterpart;
//   - empty cell: a fresh Null placeholder with the known block dims.
//
// Behavior highlights:
//   - Panics with ErrNotBlock on a leaf, ErrOutOfRange outside the grid.
func (m *Matrix) GetBlock(i, j int) *Matrix {
	sub, _ := m.cell(i, j)
	return sub
}

// HasBlock reports whether the effective grid position holds an owned cell.
func (m *Matrix) HasBlock(i, j int) bool {
	_, ref := m.cell(i, j)
	return ref == refOwned
}

// SetBlock stores a deep copy of sub at the effective grid position (i, j).
// Positions the effective kind omits are silent no-ops; nil clears the cell.
// Panics with ErrBlockDimension when sub disagrees with the known dims of
// its block row or block column.
func (m *Matrix) SetBlock(i, j int, sub *Matrix) {
	m.putBlock(i, j, sub.Clone())
}

// AdoptBlock is SetBlock without the copy: m takes ownership of sub.
func (m *Matrix) AdoptBlock(i, j int, sub *Matrix) {
	m.putBlock(i, j, sub)
}

func (m *Matrix) putBlock(i, j int, sub *Matrix) {
	if m.blk == nil {
		violation(opSetBlock, ErrNotBlock, "%s", m)
	}
	d := m.Dims()
	if i < 0 || i >= d[0] || j < 0 || j >= d[1] {
		violation(opSetBlock, ErrOutOfRange, "(%d,%d) in grid %s", i, j, d)
	}
	if _, ok := m.Kind().Index(d, i, j); !ok {
		return
	}
	ri, rj := m.trafos.Raw(i, j)
	off, ok := m.kind.Index(m.dims, ri, rj)
	mirrored := !ok
	if mirrored {
		if m.kind.Category() != 1 {
			return
		}
		// a transposed Symmetric grid stores (i, j) transposed at the raw mirror
		ri, rj = rj, ri
		off, _ = m.kind.Index(m.dims, ri, rj)
	}
	if sub == nil {
		m.blk.cells[off] = nil
		return
	}
	if len(m.trafos) > 0 {
		sub.trafos = sub.trafos.Concat(m.trafos.Inverse())
	}
	if mirrored {
		sub.trafos = sub.trafos.Append(layout.Transpose)
	}
	m.blk.claim(m.kind, ri, rj, sub.FullDims())
	m.blk.cells[off] = sub
}

// claim validates and records the dims of a cell placed at raw (i, j).
func (b *block) claim(kind layout.Kind, i, j int, d layout.Dims) {
	mirror := kind.Category() == 1
	if mirror && i == j && !d.Square() {
		violation(opSetBlock, ErrBlockDimension, "diagonal cell (%d,%d) of symmetric grid is %s", i, j, d)
	}
	check := func(known, got int, what string, idx int) {
		if known != 0 && known != got {
			violation(opSetBlock, ErrBlockDimension, "%s %d is %d, cell (%d,%d) has %d", what, idx, known, i, j, got)
		}
	}
	check(b.rdim[i], d[0], "block row", i)
	check(b.cdim[j], d[1], "block column", j)
	if mirror {
		check(b.cdim[i], d[0], "block column", i)
		check(b.rdim[j], d[1], "block row", j)
		b.cdim[i], b.rdim[j] = d[0], d[1]
	}
	b.rdim[i], b.cdim[j] = d[0], d[1]
}

// Payload returns the leaf's stored entries in the layout of Kind() and Dims().
// The slice aliases the matrix when it carries no transforms; otherwise it is
// a fresh copy with the transforms baked in. Blocks return nil.
func (m *Matrix) Payload() []float64 {
	if m == nil || m.blk != nil {
		return nil
	}
	if len(m.trafos) == 0 {
		return m.data
	}
	k, d := m.Kind(), m.Dims()
	out := make([]float64, k.Size(d))
	k.Each(d, func(off, r, c int) {
		rr, rc := m.trafos.Raw(r, c)
		out[off] = m.rawGet(rr, rc)
	})

	return out
}
