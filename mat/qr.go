// SPDX-License-Identifier: MIT

// Package mat - QR decomposition.
//
// Implementation:
//   - Null           -> (I, Null)
//   - Diagonal / UT  -> (I, copy): already upper triangular.
//   - Block with a Diagonal grid and square diagonal cells -> per-cell QR,
//     assembled into block-diagonal Q and R.
//   - Otherwise      -> Householder QR of a dense working copy
//     (dense.QR; columns sequential, the updates of one step in parallel).
//     A square R is stored as UpperTriangular.
//
// Behavior highlights:
//   - A = Q·R with QᵀQ = I; Q is rows×rows and R has the dims of A.

package mat

import (
	"github.com/katalvlaran/bmat/dense"
	"github.com/katalvlaran/bmat/layout"
)

// QR factors m into an orthogonal Q and an upper-triangular R.
func QR(m *Matrix, opts ...Option) (q, r *Matrix, err error) {
	o := gatherOptions(opts...)
	q, r, err = qr(m, o)
	if err != nil {
		return nil, nil, err
	}

	return o.finish(q), o.finish(r), nil
}

func qr(m *Matrix, o Options) (q, r *Matrix, err error) {
	d := m.FullDims()
	switch {
	case m.IsNull() || d[0] == 0 || d[1] == 0:
		return NewIdentity(d[0]), NewNull(d), nil
	case !m.IsBlock() && (m.Kind() == layout.Diagonal || m.Kind() == layout.UpperTriangular):
		return NewIdentity(d[0]), bake(m), nil
	case m.IsBlock() && m.Kind() == layout.Diagonal:
		if rows, cols := m.BlockDims(); equalInts(rows, cols) && knownDims(rows) {
			return qrBlockDiagonal(m, rows, o)
		}
	}

	a := toDense(m)
	dq, dr, err := dense.QR(a, o.par())
	if err != nil {
		return nil, nil, matErrorf(opQR, err)
	}
	q = fromDense(dq)
	r = fromDense(dr)
	if d.Square() {
		r = convertLeaf(viewOf(r), layout.UpperTriangular)
	}

	return q, r, nil
}

func qrBlockDiagonal(m *Matrix, dims []int, o Options) (q, r *Matrix, err error) {
	q = NewBlock(layout.Diagonal, dims, dims)
	r = NewBlock(layout.Diagonal, dims, dims)
	for i := range dims {
		sub, ref := m.cell(i, i)
		if ref == refEmpty {
			sub = NewNull(layout.Dims{dims[i], dims[i]})
		}
		qi, ri, err := qr(sub, o)
		if err != nil {
			return nil, nil, err
		}
		q.AdoptBlock(i, i, qi)
		r.AdoptBlock(i, i, ri)
	}

	return q, r, nil
}
