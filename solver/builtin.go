// SPDX-License-Identifier: MIT

package solver

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/bmat/dense"
)

const builtinName = "Builtin"

// Builtin runs the pure-Go dense kernels. Tol and MaxIter tune the Jacobi
// eigensolver; zero values select dense.DefaultEigenTol and
// dense.DefaultEigenMaxIter.
type Builtin struct {
	Tol     float64
	MaxIter int
}

func (b Builtin) params() (float64, int) {
	tol, it := b.Tol, b.MaxIter
	if tol <= 0 {
		tol = dense.DefaultEigenTol
	}
	if it <= 0 {
		it = dense.DefaultEigenMaxIter
	}

	return tol, it
}

// translate maps dense sentinels onto the solver ones, keeping the cause.
func translate(err error) error {
	switch {
	case errors.Is(err, dense.ErrSingular):
		return fmt.Errorf("%w: %w", ErrSingular, err)
	case errors.Is(err, dense.ErrEigenFailed):
		return fmt.Errorf("%w: %w", ErrNoConvergence, err)
	default:
		return err
	}
}

// SymEigen runs the Jacobi solver on the symmetrized copy of a.
func (b Builtin) SymEigen(n int, a []float64) (vals, vecs []float64, err error) {
	if err = checkShape(n, a); err != nil {
		return nil, nil, solverErrorf(builtinName, "SymEigen", err)
	}
	w := append([]float64(nil), a...)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			w[j*n+i] = w[i*n+j]
		}
	}
	m, err := dense.NewDenseFrom(n, n, w)
	if err != nil {
		return nil, nil, solverErrorf(builtinName, "SymEigen", err)
	}
	tol, it := b.params()
	vals, v, err := dense.SymEigen(m, tol, it)
	if err != nil {
		return nil, nil, solverErrorf(builtinName, "SymEigen", translate(err))
	}

	return vals, v.Data(), nil
}

// SymInverse mirrors the upper triangle, inverts with pivoted LU and
// re-symmetrizes the result.
func (b Builtin) SymInverse(n int, a []float64) error {
	if err := checkShape(n, a); err != nil {
		return solverErrorf(builtinName, "SymInverse", err)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a[j*n+i] = a[i*n+j]
		}
	}
	if err := dense.InverseFlat(n, a); err != nil {
		return solverErrorf(builtinName, "SymInverse", translate(err))
	}
	symmetrize(n, a)

	return nil
}

// Inverse inverts a in place with pivoted LU.
func (Builtin) Inverse(n int, a []float64) error {
	if err := checkShape(n, a); err != nil {
		return solverErrorf(builtinName, "Inverse", err)
	}
	if err := dense.InverseFlat(n, a); err != nil {
		return solverErrorf(builtinName, "Inverse", translate(err))
	}

	return nil
}
