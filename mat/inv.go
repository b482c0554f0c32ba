// SPDX-License-Identifier: MIT

// Package mat - inversion.
//
// Strategies:
//   - Invert:       QR, then BackSub(R, Qᵀ). Works for every kind; the rank
//     guard on diag(R) turns numerically singular input into ErrSingular.
//   - InvertDirect: Diagonal inverted entry-wise, Symmetric through
//     DenseSolver.SymInverse plus explicit symmetrization, anything else
//     through DenseSolver.Inverse; Diagonal grids recurse per cell.
//   - InvertSchur:  2×2 block grids via the Schur complement of the leading
//     block, delegating the two smaller inversions to an inner strategy.
//   - InvertCov:    normalize a covariance to its correlation, invert with a
//     given strategy and undo the normalization.
//
// Every failure returns (nil, err) with err wrapping ErrSingular and is
// logged at Warn level; inversion never panics on numeric input.

package mat

import (
	"fmt"
	"math"

	"github.com/katalvlaran/bmat/layout"
)

// rankTol is the relative threshold on |R[i,i]| / max|R[j,j]| below which
// Invert reports ErrSingular.
const rankTol = 1e-12

// InvertFunc is an inversion strategy.
type InvertFunc func(m *Matrix, opts ...Option) (*Matrix, error)

// Invert returns m⁻¹ computed as R⁻¹·Qᵀ from the QR decomposition of m.
// Panics with ErrNonSquare for non-square m.
func Invert(m *Matrix, opts ...Option) (*Matrix, error) {
	d := m.FullDims()
	if !d.Square() {
		violation(opInvert, ErrNonSquare, "%s", d)
	}
	o := gatherOptions(opts...)
	if d[0] == 0 {
		return NewNull(d), nil
	}
	if m.IsNull() {
		return nil, warnf(o, singular(opInvert, "null %s", d))
	}
	q, r, err := qr(m, o)
	if err != nil {
		return nil, warnf(o, matErrorf(opInvert, fmt.Errorf("%w: %w", ErrSingular, err)))
	}
	diag := make([]float64, d[0])
	diagonal(r, diag, 0)
	top := 0.0
	for _, x := range diag {
		top = max(top, math.Abs(x))
	}
	for i, x := range diag {
		if top == 0 || math.Abs(x) <= rankTol*top {
			return nil, warnf(o, singular(opInvert, "rank deficient at %d", i))
		}
	}
	x, err := backsub(r, FastTranspose(q), o)
	if err != nil {
		return nil, warnf(o, err)
	}

	return o.finish(x), nil
}

func warnf(o Options, err error) error {
	o.logger.Warn("inversion failed", "err", err)
	return err
}

// InvertDirect returns m⁻¹ using the configured DenseSolver.
// Panics with ErrNonSquare for non-square m.
func InvertDirect(m *Matrix, opts ...Option) (*Matrix, error) {
	d := m.FullDims()
	if !d.Square() {
		violation(opInvertDir, ErrNonSquare, "%s", d)
	}
	o := gatherOptions(opts...)
	x, err := invDirect(reduce(m, o), o)
	if err != nil {
		return nil, warnf(o, err)
	}

	return o.finish(x), nil
}

func invDirect(m *Matrix, o Options) (*Matrix, error) {
	d := m.FullDims()
	if d[0] == 0 {
		return NewNull(d), nil
	}
	if m.IsNull() {
		return nil, singular(opInvertDir, "null %s", d)
	}
	if m.IsBlock() {
		rows, cols := m.BlockDims()
		if m.Kind() == layout.Diagonal && equalInts(rows, cols) && knownDims(rows) {
			out := NewBlock(layout.Diagonal, rows, cols)
			for i := range rows {
				sub, ref := m.cell(i, i)
				if ref == refEmpty || sub.IsNull() {
					return nil, singular(opInvertDir, "diagonal block %d", i)
				}
				inv, err := invDirect(sub, o)
				if err != nil {
					return nil, err
				}
				out.AdoptBlock(i, i, inv)
			}
			return out, nil
		}
		o.logger.Debug("invert densifies", "matrix", m.String())
		return invDirect(reduce(densify(m), o), o)
	}

	n := d[0]
	switch m.Kind() {
	case layout.Diagonal:
		src := m.Payload()
		out := New(layout.Diagonal, d, false)
		for i, x := range src {
			if x == 0 {
				return nil, singular(opInvertDir, "diagonal %d", i)
			}
			out.data[i] = 1 / x
		}
		return out, nil
	case layout.Symmetric:
		a := flat(m)
		if err := o.solver.SymInverse(n, a); err != nil {
			return nil, matErrorf(opInvertDir, fmt.Errorf("%w: %w", ErrSingular, err))
		}
		out := New(layout.Symmetric, d, false)
		out.kind.Each(d, func(off, r, c int) { out.data[off] = 0.5 * (a[r*n+c] + a[c*n+r]) })
		return out, nil
	default:
		a := flat(m)
		if err := o.solver.Inverse(n, a); err != nil {
			return nil, matErrorf(opInvertDir, fmt.Errorf("%w: %w", ErrSingular, err))
		}
		return &Matrix{kind: layout.Full, dims: d, data: a}, nil
	}
}

// InvertSchur inverts a 2×2 block grid [[A, B], [C, D]] through the Schur
// complement S = D - C·A⁻¹·B:
//
//	[[A⁻¹ + A⁻¹·B·S⁻¹·C·A⁻¹, -A⁻¹·B·S⁻¹], [-S⁻¹·C·A⁻¹, S⁻¹]]
//
// A⁻¹ and S⁻¹ come from inner (InvertDirect when nil). Anything that is not a
// 2×2 grid with square diagonal blocks is handed to inner as a whole.
// A Symmetric grid yields a Symmetric grid.
func InvertSchur(m *Matrix, inner InvertFunc, opts ...Option) (*Matrix, error) {
	if inner == nil {
		inner = InvertDirect
	}
	d := m.FullDims()
	if !d.Square() {
		violation(opInvertSchur, ErrNonSquare, "%s", d)
	}
	rows, cols := m.BlockDims()
	if !m.IsBlock() || m.Dims() != (layout.Dims{2, 2}) || !equalInts(rows, cols) || !knownDims(rows) {
		return inner(m, opts...)
	}
	o := gatherOptions(opts...)
	rawOpts := raw(opts)

	a, _ := m.cell(0, 0)
	b, _ := m.cell(0, 1)
	c, _ := m.cell(1, 0)
	dd, _ := m.cell(1, 1)

	ainv, err := inner(a, opts...)
	if err != nil {
		return nil, warnf(o, matErrorf(opInvertSchur, err))
	}
	cainv := Multiply(c, ainv, rawOpts...)
	ainvb := Multiply(ainv, b, rawOpts...)
	// S = D - C·A⁻¹·B
	s := Sub(dd, Multiply(cainv, b, rawOpts...), opts...)
	sinv, err := inner(s, opts...)
	if err != nil {
		return nil, warnf(o, matErrorf(opInvertSchur, err))
	}
	x12 := MultiplyScaled(ainvb, sinv, -1, rawOpts...)
	x11 := Sub(ainv, Multiply(x12, cainv, rawOpts...), rawOpts...)

	kind := layout.Full
	if m.Kind() == layout.Symmetric {
		kind = layout.Symmetric
	}
	out := NewBlock(kind, rows, cols)
	out.AdoptBlock(0, 0, x11)
	out.AdoptBlock(0, 1, x12)
	out.AdoptBlock(1, 1, sinv)
	if kind == layout.Full {
		out.AdoptBlock(1, 0, MultiplyScaled(sinv, cainv, -1, rawOpts...))
	}
	out.label = m.label

	return o.finish(out), nil
}

// SchurInverter returns an InvertFunc applying InvertSchur with inner.
func SchurInverter(inner InvertFunc) InvertFunc {
	return func(m *Matrix, opts ...Option) (*Matrix, error) {
		return InvertSchur(m, inner, opts...)
	}
}

// InvertCov inverts a covariance matrix m through its correlation matrix:
// with D = diag(1/√m[i,i]), m⁻¹ = D·(D·m·D)⁻¹·D. inv inverts the correlation
// (InvertDirect when nil). A non-positive variance returns ErrSingular.
func InvertCov(inv InvertFunc, m *Matrix, opts ...Option) (*Matrix, error) {
	if inv == nil {
		inv = InvertDirect
	}
	d := m.FullDims()
	if !d.Square() {
		violation(opInvertCov, ErrNonSquare, "%s", d)
	}
	o := gatherOptions(opts...)
	variance := DiagFunc(m, nil, WithoutReduce())
	for i, v := range variance.data {
		if !(v > 0) {
			return nil, warnf(o, singular(opInvertCov, "variance %d is %g", i, v))
		}
	}
	dinv := DiagFunc(m, InvSqrt, WithoutReduce())
	corr := MultiplyScaled(Multiply(dinv, m, raw(opts)...), dinv, 1, opts...)
	ci, err := inv(corr, opts...)
	if err != nil {
		return nil, warnf(o, matErrorf(opInvertCov, err))
	}

	return MultiplyScaled(Multiply(dinv, ci, raw(opts)...), dinv, 1, opts...), nil
}
