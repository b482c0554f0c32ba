// SPDX-License-Identifier: MIT
// Package dense: sentinel error set.
// Kernels return these sentinels (wrapped with the operation tag through
// denseErrorf) and tests match them with errors.Is. Kernels never panic on
// numeric conditions.

package dense

import "errors"

var (
	// ErrBadShape is returned when requested shape is invalid (r<=0 or c<=0),
	// or when a backing slice does not hold exactly r*c values.
	ErrBadShape = errors.New("dense: invalid shape")

	// ErrOutOfRange indicates that an index (row or column) is outside valid bounds.
	ErrOutOfRange = errors.New("dense: index out of range")

	// ErrDimensionMismatch indicates incompatible dimensions between operands.
	ErrDimensionMismatch = errors.New("dense: dimension mismatch")

	// ErrNonSquare signals that a square matrix was required but the input wasn't.
	ErrNonSquare = errors.New("dense: matrix is not square")

	// ErrAsymmetry signals that a matrix expected to be symmetric violated symmetry
	// within the tolerance.
	ErrAsymmetry = errors.New("dense: matrix is not symmetric within tolerance")

	// ErrSingular is returned when a zero pivot survives partial pivoting, or a
	// triangular solve meets a zero diagonal entry.
	ErrSingular = errors.New("dense: singular matrix")

	// ErrEigenFailed indicates that the Jacobi sweep did not converge.
	ErrEigenFailed = errors.New("dense: eigen decomposition failed")
)
