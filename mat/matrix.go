// SPDX-License-Identifier: MIT

// Package mat - the Matrix value.
//
// Purpose:
//   - One recursive type for both leaves (flat payload in the layout of the
//     storage kind) and blocks (a grid of owned sub-matrices whose positions
//     follow the same kind mapping applied to the grid).
//   - Location transforms (currently Transpose) are metadata: a matrix keeps
//     its raw kind, raw dims and payload, and every accessor maps effective
//     locations back to raw ones.
//
// Representation rule of a block cell (see cell):
//   - owned:    the grid kind stores the position and a sub-matrix is set;
//   - mirrored: category-1 kind (Symmetric), the position is omitted and the
//     transposed view of the stored counterpart stands in;
//   - empty:    anything else; it reads as a Null placeholder carrying the
//     known block-row / block-column dims (never a physical zero array).
//
// Ownership:
//   - Clone is a deep copy; View shares payload and cells.
//   - SetBlock stores a deep copy; AdoptBlock takes ownership of its argument.
//
// AI-Hints:
//   - Kind(), Dims(), FullDims() and BlockDims() are EFFECTIVE (transforms applied).
//   - For a block, Dims() is the grid shape; FullDims() is the element shape.
//   - Block dims equal to 0 mean "unknown until a cell is set".

package mat

import (
	"fmt"

	"github.com/katalvlaran/bmat/layout"
)

// Source records where a matrix was loaded from.
type Source struct {
	File   string      // path of the file
	Offset int64       // line (text) or byte (binary) offset of the payload
	Kind   layout.Kind // on-disk kind
	Binary bool        // binary payload
}

// Matrix is a leaf or block matrix. The zero value is not usable; use New.
type Matrix struct {
	kind   layout.Kind
	dims   layout.Dims // leaf: element dims; block: grid dims (raw)
	trafos layout.Transforms
	data   []float64 // leaf payload, len == kind.Size(dims)
	blk    *block
	label  string
	source *Source
}

// block holds the cells of a block matrix.
type block struct {
	cells []*Matrix // indexed by kind.Index over the grid; nil = unset
	rdim  []int     // per block-row dims, 0 = unknown
	cdim  []int     // per block-column dims, 0 = unknown
}

// refKind classifies a resolved block cell.
type refKind uint8

const (
	refEmpty refKind = iota
	refOwned
	refMirrored
)

// New creates a matrix of the given kind.
// MAIN DESCRIPTION:
//   - Leaf: zero-filled payload of kind.Size(dims) entries.
//   - Block: dims is the grid shape; no cells, all block dims unknown.
//
// Behavior highlights:
//   - Panics with ErrNonSquare when a square kind meets non-square dims,
//     ErrNullBlock for a Null block, ErrBadShape for negative dims.
func New(kind layout.Kind, dims layout.Dims, isBlock bool) *Matrix {
	if !kind.Valid() {
		violation(opNew, layout.ErrUnknownKind, "kind %d", uint8(kind))
	}
	if dims[0] < 0 || dims[1] < 0 {
		violation(opNew, ErrBadShape, "dims %s", dims)
	}
	if kind.Square() && !dims.Square() {
		violation(opNew, ErrNonSquare, "%s %s", kind, dims)
	}
	if !isBlock {
		return &Matrix{kind: kind, dims: dims, data: make([]float64, kind.Size(dims))}
	}
	if kind == layout.Null {
		violation(opNew, ErrNullBlock, "grid %s", dims)
	}

	return &Matrix{kind: kind, dims: dims, blk: &block{
		cells: make([]*Matrix, kind.Size(dims)),
		rdim:  make([]int, dims[0]),
		cdim:  make([]int, dims[1]),
	}}
}

// NewNull returns a Null leaf of the given dims.
func NewNull(dims layout.Dims) *Matrix {
	return New(layout.Null, dims, false)
}

// NewBlock creates a block whose per-row and per-column dims are known.
// A Symmetric grid requires rowDims == colDims.
func NewBlock(kind layout.Kind, rowDims, colDims []int) *Matrix {
	m := New(kind, layout.Dims{len(rowDims), len(colDims)}, true)
	if kind.Category() == 1 {
		for i := range rowDims {
			if rowDims[i] != colDims[i] {
				violation(opNew, ErrBlockDimension, "symmetric grid row %d: %d vs %d", i, rowDims[i], colDims[i])
			}
		}
	}
	copy(m.blk.rdim, rowDims)
	copy(m.blk.cdim, colDims)

	return m
}

// NewLeaf creates a leaf from a payload in the layout of kind (copied).
func NewLeaf(kind layout.Kind, dims layout.Dims, payload []float64) *Matrix {
	m := New(kind, dims, false)
	if len(payload) != len(m.data) {
		violation(opNew, ErrBadShape, "%s %s needs %d values, got %d", kind, dims, len(m.data), len(payload))
	}
	copy(m.data, payload)

	return m
}

// NewIdentity returns the n×n identity as a Diagonal leaf.
func NewIdentity(n int) *Matrix {
	m := New(layout.Diagonal, layout.Dims{n, n}, false)
	for i := range m.data {
		m.data[i] = 1
	}

	return m
}

// NewFromRows creates a leaf of the given kind from a dense row slice.
// Only the entries the kind stores are read (Symmetric reads the upper triangle).
func NewFromRows(kind layout.Kind, rows [][]float64) *Matrix {
	r := len(rows)
	c := 0
	if r > 0 {
		c = len(rows[0])
	}
	for i, row := range rows {
		if len(row) != c {
			violation(opNew, ErrBadShape, "row %d has %d values, want %d", i, len(row), c)
		}
	}
	m := New(kind, layout.Dims{r, c}, false)
	kind.Each(m.dims, func(off, i, j int) { m.data[off] = rows[i][j] })

	return m
}

// ---------- accessors ----------

// Kind returns the effective storage kind (layout.Null for nil).
func (m *Matrix) Kind() layout.Kind {
	if m == nil {
		return layout.Null
	}

	return m.trafos.Kind(m.kind)
}

// Dims returns the effective dims: element dims for a leaf, grid dims for a block.
func (m *Matrix) Dims() layout.Dims {
	if m == nil {
		return layout.Dims{}
	}

	return m.trafos.Dims(m.dims)
}

// IsBlock reports whether m is a block matrix.
func (m *Matrix) IsBlock() bool { return m != nil && m.blk != nil }

// IsNull reports whether m is nil or a Null leaf.
func (m *Matrix) IsNull() bool { return m == nil || m.kind == layout.Null }

// rawFull returns the element dims before transforms.
func (m *Matrix) rawFull() layout.Dims {
	if m.blk == nil {
		return m.dims
	}
	var d layout.Dims
	for _, v := range m.blk.rdim {
		d[0] += v
	}
	for _, v := range m.blk.cdim {
		d[1] += v
	}

	return d
}

// FullDims returns the effective element dims (sum of block dims for a block).
func (m *Matrix) FullDims() layout.Dims {
	if m == nil {
		return layout.Dims{}
	}

	return m.trafos.Dims(m.rawFull())
}

// swapped reports whether the transforms exchange the row and column axes.
func (m *Matrix) swapped() bool {
	return m.trafos.Dims(layout.Dims{0, 1})[0] == 1
}

// BlockDims returns copies of the effective per-row and per-column block dims
// (0 = unknown). A leaf reports its element dims as a 1×1 partition.
func (m *Matrix) BlockDims() (rows, cols []int) {
	if m == nil {
		return nil, nil
	}
	if m.blk == nil {
		d := m.Dims()
		return []int{d[0]}, []int{d[1]}
	}
	rows = append([]int(nil), m.blk.rdim...)
	cols = append([]int(nil), m.blk.cdim...)
	if m.swapped() {
		rows, cols = cols, rows
	}

	return rows, cols
}

// Depth returns the nesting depth: 0 for a leaf, 1 + max child depth for a block.
func (m *Matrix) Depth() int {
	if m == nil || m.blk == nil {
		return 0
	}
	d := 0
	for _, c := range m.blk.cells {
		if c != nil {
			d = max(d, c.Depth())
		}
	}

	return d + 1
}

// Label returns the label ("" when unset).
func (m *Matrix) Label() string {
	if m == nil {
		return ""
	}

	return m.label
}

// SetLabel sets the label.
func (m *Matrix) SetLabel(label string) { m.label = label }

// Source returns the provenance record, nil when the matrix was not loaded from a file.
func (m *Matrix) Source() *Source {
	if m == nil || m.source == nil {
		return nil
	}
	s := *m.source

	return &s
}

// SetSource records provenance.
func (m *Matrix) SetSource(src *Source) {
	if src == nil {
		m.source = nil
		return
	}
	s := *src
	m.source = &s
}

// Transforms returns a copy of the pending location transforms.
func (m *Matrix) Transforms() layout.Transforms {
	if m == nil {
		return nil
	}

	return m.trafos.Clone()
}

// String renders kind, dims and label, e.g. "s(3, 3) cov" or "block f(2, 2)".
func (m *Matrix) String() string {
	if m == nil {
		return "<nil>"
	}
	s := fmt.Sprintf("%s%s", m.Kind(), m.Dims())
	if m.blk != nil {
		s = "block " + s
	}
	if m.label != "" {
		s += " " + m.label
	}

	return s
}

// ---------- copies ----------

// Clone returns a deep copy (payload, cells, transforms, label, source).
func (m *Matrix) Clone() *Matrix {
	if m == nil {
		return nil
	}
	out := &Matrix{kind: m.kind, dims: m.dims, trafos: m.trafos.Clone(), label: m.label}
	out.SetSource(m.source)
	if m.data != nil {
		out.data = append([]float64(nil), m.data...)
	}
	if m.blk != nil {
		out.blk = &block{
			cells: make([]*Matrix, len(m.blk.cells)),
			rdim:  append([]int(nil), m.blk.rdim...),
			cdim:  append([]int(nil), m.blk.cdim...),
		}
		for i, c := range m.blk.cells {
			out.blk.cells[i] = c.Clone()
		}
	}

	return out
}

// View returns a shallow copy: a new envelope sharing payload and cells.
// Transforms applied to the view do not affect m.
func (m *Matrix) View() *Matrix {
	if m == nil {
		return nil
	}
	v := *m
	v.trafos = m.trafos.Clone()

	return &v
}

// withTrafos returns a view with ts appended after m's own transforms.
func (m *Matrix) withTrafos(ts layout.Transforms) *Matrix {
	v := *m
	v.trafos = m.trafos.Concat(ts)

	return &v
}

// Swap exchanges the contents of a and b.
func Swap(a, b *Matrix) { *a, *b = *b, *a }

// Release drops payload and cells, leaving a Null leaf of the same
// effective element dims and label that can be refilled.
func (m *Matrix) Release() {
	if m == nil {
		return
	}
	*m = Matrix{kind: layout.Null, dims: m.FullDims(), label: m.label}
}
