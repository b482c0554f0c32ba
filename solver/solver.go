// SPDX-License-Identifier: MIT

// Package solver provides the dense numeric backends the block engine
// delegates to once a structured value has been gathered into a flat
// row-major array: symmetric eigendecomposition, symmetric inversion and
// general inversion.
//
// Two backends are provided:
//   - Gonum, built on gonum's LAPACK port (EigenSym, Cholesky, Getrf/Getri).
//   - Builtin, built on the package dense kernels (Jacobi, pivoted LU).
//
// Both satisfy mat.DenseSolver. Every array is n×n row-major and is never
// retained after the call returns.
package solver

import (
	"errors"
	"fmt"
)

var (
	// ErrSingular reports that a factorization met an exactly singular matrix.
	ErrSingular = errors.New("solver: singular matrix")

	// ErrNoConvergence reports that an iterative eigensolver did not converge.
	ErrNoConvergence = errors.New("solver: eigen decomposition did not converge")

	// ErrShape reports an array whose length is not n*n.
	ErrShape = errors.New("solver: array length is not n*n")
)

// solverErrorf wraps err with the backend and operation name.
func solverErrorf(backend, op string, err error) error {
	return fmt.Errorf("%s.%s: %w", backend, op, err)
}

func checkShape(n int, a []float64) error {
	if n <= 0 || len(a) != n*n {
		return fmt.Errorf("n=%d len=%d: %w", n, len(a), ErrShape)
	}

	return nil
}

// symmetrize replaces a with (a + aᵀ)/2.
func symmetrize(n int, a []float64) {
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := 0.5 * (a[i*n+j] + a[j*n+i])
			a[i*n+j], a[j*n+i] = v, v
		}
	}
}
