// SPDX-License-Identifier: MIT

package mat

import (
	"fmt"

	"github.com/katalvlaran/bmat/layout"
)

// Eigen returns the eigenvalues of the symmetric matrix m as a Diagonal leaf
// and the eigenvectors as the columns of vecs, so m·vecs = vecs·vals.
// MAIN DESCRIPTION:
//   - m is reduced first; Null and Diagonal are trivial (vecs = I).
//   - Symmetric leaves go through the configured DenseSolver (ascending
//     eigenvalues).
//   - A block with a Diagonal grid is decomposed cell by cell; vecs is then
//     block-diagonal and vals are ordered per cell.
//   - Other blocks are densified.
//
// Returns ErrNotSymmetric when the reduced kind is neither Diagonal nor
// Symmetric, ErrSingular wrapping the solver error when it fails.
// Panics with ErrNonSquare for non-square m.
func Eigen(m *Matrix, opts ...Option) (vals, vecs *Matrix, err error) {
	d := m.FullDims()
	if !d.Square() {
		violation(opEigen, ErrNonSquare, "%s", d)
	}
	o := gatherOptions(opts...)

	return eigen(reduce(m, o), o)
}

func eigen(m *Matrix, o Options) (vals, vecs *Matrix, err error) {
	n := m.FullDims()[0]
	if m.IsNull() {
		return New(layout.Diagonal, layout.Dims{n, n}, false), NewIdentity(n), nil
	}
	if m.IsBlock() {
		rows, cols := m.BlockDims()
		if m.Kind() == layout.Diagonal && equalInts(rows, cols) && knownDims(rows) {
			return eigenBlockDiagonal(m, rows, o)
		}
		o.logger.Debug("eigen densifies", "matrix", m.String())
		m = reduce(densify(m), o)
		if m.IsNull() {
			return New(layout.Diagonal, layout.Dims{n, n}, false), NewIdentity(n), nil
		}
	}

	switch m.Kind() {
	case layout.Diagonal:
		return bake(m), NewIdentity(n), nil
	case layout.Symmetric:
		ws, vs, err := o.solver.SymEigen(n, flat(m))
		if err != nil {
			o.logger.Warn("eigen failed", "matrix", m.String(), "err", err)
			return nil, nil, matErrorf(opEigen, fmt.Errorf("%w: %w", ErrSingular, err))
		}
		return NewLeaf(layout.Diagonal, layout.Dims{n, n}, ws),
			&Matrix{kind: layout.Full, dims: layout.Dims{n, n}, data: vs}, nil
	default:
		return nil, nil, matErrorf(opEigen, fmt.Errorf("%s: %w", m.Kind(), ErrNotSymmetric))
	}
}

func eigenBlockDiagonal(m *Matrix, dims []int, o Options) (vals, vecs *Matrix, err error) {
	total := sum(dims)
	vals = New(layout.Diagonal, layout.Dims{total, total}, false)
	vecs = NewBlock(layout.Diagonal, dims, dims)
	ro := offsets(dims)
	for i := range dims {
		sub, ref := m.cell(i, i)
		if ref == refEmpty {
			sub = NewNull(layout.Dims{dims[i], dims[i]})
		}
		w, v, err := eigen(reduce(sub, o), o)
		if err != nil {
			return nil, nil, err
		}
		copy(vals.data[ro[i]:ro[i+1]], w.Payload())
		vecs.AdoptBlock(i, i, v)
	}

	return vals, vecs, nil
}
