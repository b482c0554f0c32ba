// SPDX-License-Identifier: MIT
// Package mat: sentinel error set.
//
// Two failure classes exist and they surface differently:
//   - structural violations (mismatched dimensions, square kinds on
//     non-square dims, conflicting block dimensions, out-of-range indices,
//     Null blocks) are programmer errors and PANIC with one of these
//     sentinels wrapped via matErrorf; recover and match with errors.Is.
//   - numeric failures (singular input, failed factorization, unsupported
//     kind for a decomposition) are RETURNED as (nil, err).
//
// Non-errors: Set on an absent location is a no-op and Get on an absent
// location returns 0.

package mat

import (
	"errors"
	"fmt"
)

var (
	// ErrNonSquare signals a square storage kind requested with non-square dims,
	// or a square operand required but not given.
	ErrNonSquare = errors.New("mat: matrix is not square")

	// ErrNullBlock signals an attempt to create a Null block; Null is always a leaf.
	ErrNullBlock = errors.New("mat: null matrix cannot be a block")

	// ErrNotBlock signals a block operation on a leaf.
	ErrNotBlock = errors.New("mat: matrix is not a block")

	// ErrBadShape signals negative dimensions or a payload of the wrong length.
	ErrBadShape = errors.New("mat: invalid shape")

	// ErrBlockDimension signals a sub-matrix whose dims disagree with the
	// known dims of its block row or block column.
	ErrBlockDimension = errors.New("mat: block dimension mismatch")

	// ErrDimensionMismatch signals non-conformable operands.
	ErrDimensionMismatch = errors.New("mat: dimension mismatch")

	// ErrOutOfRange signals an index outside the matrix.
	ErrOutOfRange = errors.New("mat: index out of range")

	// ErrSingular signals a singular matrix or a failed factorization.
	ErrSingular = errors.New("mat: singular matrix")

	// ErrNotSymmetric signals an eigendecomposition request on a kind that is
	// neither Diagonal nor Symmetric.
	ErrNotSymmetric = errors.New("mat: matrix is not symmetric")
)

// Operation name constants for unified error wrapping.
const (
	opNew         = "New"
	opSetBlock    = "SetBlock"
	opGetBlock    = "GetBlock"
	opGet         = "Get"
	opAdd         = "Add"
	opMultiply    = "Multiply"
	opPermute     = "Permute"
	opCorrelation = "Correlation"
	opQR          = "QR"
	opEigen       = "Eigen"
	opBackSub     = "BackSub"
	opInvert      = "Invert"
	opInvertDir   = "InvertDirect"
	opInvertSchur = "InvertSchur"
	opInvertCov   = "InvertCov"
	opSubmatrix   = "Submatrix"
	opConvert     = "Convert"
	opPartition   = "Partition"
	opDiag        = "Diag"
	opTemplate    = "Template"
	opFill        = "Fill"
	opCollection  = "Collection"
)

// matErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil.
func matErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// violation panics with a wrapped structural sentinel.
func violation(tag string, err error, format string, args ...any) {
	panic(matErrorf(tag, fmt.Errorf(format+": %w", append(args, err)...)))
}
