// SPDX-License-Identifier: MIT

package mat

import (
	"fmt"

	"github.com/katalvlaran/bmat/dense"
	"github.com/katalvlaran/bmat/layout"
)

// BackSub solves a·x = b for x where a is square upper triangular
// (entries below the diagonal are ignored).
// MAIN DESCRIPTION:
//   - Diagonal leaf a: x = a⁻¹·b by row scaling.
//   - a block with an UpperTriangular or Diagonal grid and equal, known
//     row/column partitions: block back-substitution, bottom block row
//     first, x_i = BackSub(a_ii, b_i - Σ_{k>i} a_ik·x_k) per block column of b.
//   - Otherwise a dense back-substitution on working copies.
//
// Errors:
//   - ErrSingular when a diagonal entry (or diagonal block) is exactly zero / Null.
//
// Behavior highlights:
//   - Panics with ErrNonSquare / ErrDimensionMismatch on bad shapes.
func BackSub(a, b *Matrix, opts ...Option) (*Matrix, error) {
	da, db := a.FullDims(), b.FullDims()
	if !da.Square() {
		violation(opBackSub, ErrNonSquare, "%s", da)
	}
	if da[1] != db[0] {
		violation(opBackSub, ErrDimensionMismatch, "%s \\ %s", da, db)
	}
	o := gatherOptions(opts...)
	x, err := backsub(a, b, o)
	if err != nil {
		o.logger.Warn("back-substitution failed", "a", a.String(), "err", err)
		return nil, err
	}

	return o.finish(x), nil
}

func singular(tag, format string, args ...any) error {
	return matErrorf(tag, fmt.Errorf(format+": %w", append(args, ErrSingular)...))
}

func backsub(a, b *Matrix, o Options) (*Matrix, error) {
	da, db := a.FullDims(), b.FullDims()
	if da[0] == 0 {
		return NewNull(db), nil
	}
	if a.IsNull() {
		return nil, singular(opBackSub, "null %s", da)
	}
	if !a.IsBlock() && a.Kind() == layout.Diagonal {
		d := a.Payload()
		inv := make([]float64, len(d))
		for i, x := range d {
			if x == 0 {
				return nil, singular(opBackSub, "diagonal %d", i)
			}
			inv[i] = 1 / x
		}
		if b.IsNull() {
			return NewNull(db), nil
		}
		return scaleRows(inv, b, o), nil
	}
	if a.IsBlock() && (a.Kind() == layout.UpperTriangular || a.Kind() == layout.Diagonal) {
		if rows, cols := a.BlockDims(); equalInts(rows, cols) && knownDims(rows) {
			return backsubBlock(a, rows, b, o)
		}
	}
	if db[1] == 0 {
		return NewNull(db), nil
	}

	x, err := dense.BackSub(toDense(a), toDense(b))
	if err != nil {
		return nil, matErrorf(opBackSub, fmt.Errorf("%w: %w", ErrSingular, err))
	}

	return fromDense(x), nil
}

func backsubBlock(a *Matrix, dims []int, b *Matrix, o Options) (*Matrix, error) {
	p := len(dims)
	var rhs *Matrix
	if b.IsBlock() {
		if br, _ := b.BlockDims(); compatibleDims(br, dims) {
			rhs = b
		}
	}
	if rhs == nil {
		rhs = Partition(b, layout.Full, dims, []int{b.FullDims()[1]}, WithoutReduce())
	}
	_, cols := rhs.BlockDims()
	if !knownDims(cols) {
		rhs = Partition(b, layout.Full, dims, []int{b.FullDims()[1]}, WithoutReduce())
		_, cols = rhs.BlockDims()
	}
	x := NewBlock(layout.Full, dims, cols)
	for j := range cols {
		for i := p - 1; i >= 0; i-- {
			aii, ref := a.cell(i, i)
			if ref == refEmpty || aii.IsNull() {
				return nil, singular(opBackSub, "diagonal block %d", i)
			}
			bij, _ := rhs.cell(i, j)
			acc := bake(bij)
			for k := i + 1; k < p; k++ {
				aik, _ := a.cell(i, k)
				xkj, _ := x.cell(k, j)
				if aik.IsNull() || xkj.IsNull() {
					continue
				}
				acc = addScaled(acc, mul(aik, xkj, 1, o), -1, o)
			}
			xij, err := backsub(aii, acc, o)
			if err != nil {
				return nil, err
			}
			x.AdoptBlock(i, j, xij)
		}
	}

	return x, nil
}
