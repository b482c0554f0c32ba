// SPDX-License-Identifier: MIT

package mat

import (
	"github.com/katalvlaran/bmat/layout"
)

// PermuteJob selects the axes Permute acts on.
type PermuteJob byte

// Permutation jobs.
const (
	PermuteRows PermuteJob = 'r' // row i of the result is row perm[i]
	PermuteCols PermuteJob = 'c' // column j of the result is column perm[j]
	PermuteBoth PermuteJob = 'b' // both; keeps a Symmetric matrix symmetric
)

// Permute reorders rows, columns or both of m through permutation-matrix
// products (P·m, m·Pᵀ or P·m·Pᵀ with P[i, perm[i]] = 1).
// Panics with ErrDimensionMismatch when perm has the wrong length and with
// ErrOutOfRange when perm is not a permutation.
func Permute(job PermuteJob, m *Matrix, perm []int, opts ...Option) *Matrix {
	d := m.FullDims()
	rawOpts := raw(opts)
	switch job {
	case PermuteRows:
		return Multiply(permutation(perm, d[0]), m, opts...)
	case PermuteCols:
		return Multiply(m, FastTranspose(permutation(perm, d[1])), opts...)
	case PermuteBoth:
		if !d.Square() {
			violation(opPermute, ErrNonSquare, "%s", d)
		}
		p := permutation(perm, d[0])
		return Multiply(Multiply(p, m, rawOpts...), FastTranspose(p), opts...)
	default:
		violation(opPermute, ErrOutOfRange, "unknown job %q", byte(job))
	}

	return nil
}

// permutation returns P with P[i, perm[i]] = 1 as a Full leaf.
func permutation(perm []int, n int) *Matrix {
	if len(perm) != n {
		violation(opPermute, ErrDimensionMismatch, "permutation of length %d for %d", len(perm), n)
	}
	seen := make([]bool, n)
	p := New(layout.Full, layout.Dims{n, n}, false)
	for i, j := range perm {
		if j < 0 || j >= n || seen[j] {
			violation(opPermute, ErrOutOfRange, "perm[%d] = %d", i, j)
		}
		seen[j] = true
		p.data[i*n+j] = 1
	}

	return p
}

// Correlation returns D·m·D with D = diag(1/√m[i,i]).
// A non-positive diagonal entry yields Inf/NaN entries in its row and column.
// Panics with ErrNonSquare for non-square m.
func Correlation(m *Matrix, opts ...Option) *Matrix {
	if !m.FullDims().Square() {
		violation(opCorrelation, ErrNonSquare, "%s", m.FullDims())
	}
	dinv := DiagFunc(m, InvSqrt, WithoutReduce())

	return MultiplyScaled(Multiply(dinv, m, raw(opts)...), dinv, 1, opts...)
}
