// SPDX-License-Identifier: MIT

package solver

import (
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack/lapack64"
	"gonum.org/v1/gonum/mat"
)

const gonumName = "Gonum"

// Gonum delegates to gonum's LAPACK implementation.
// The zero value is ready to use.
type Gonum struct{}

// SymEigen returns ascending eigenvalues and the row-major eigenvector
// matrix (column i belongs to vals[i]) of the symmetric matrix a.
// Only the upper triangle of a is read.
func (Gonum) SymEigen(n int, a []float64) (vals, vecs []float64, err error) {
	if err = checkShape(n, a); err != nil {
		return nil, nil, solverErrorf(gonumName, "SymEigen", err)
	}
	sym := mat.NewSymDense(n, append([]float64(nil), a...))
	var es mat.EigenSym
	if ok := es.Factorize(sym, true); !ok {
		return nil, nil, solverErrorf(gonumName, "SymEigen", ErrNoConvergence)
	}
	vals = es.Values(nil)
	var v mat.Dense
	es.VectorsTo(&v)
	raw := v.RawMatrix()
	vecs = make([]float64, n*n)
	for i := 0; i < n; i++ {
		copy(vecs[i*n:(i+1)*n], raw.Data[i*raw.Stride:i*raw.Stride+n])
	}

	return vals, vecs, nil
}

// SymInverse inverts the symmetric matrix a in place.
// Implementation:
//   - Stage 1: Cholesky factorization and inverse for positive-definite input.
//   - Stage 2: otherwise fall back to LU (Getrf/Getri), then re-symmetrize.
func (g Gonum) SymInverse(n int, a []float64) error {
	if err := checkShape(n, a); err != nil {
		return solverErrorf(gonumName, "SymInverse", err)
	}
	var ch mat.Cholesky
	if ch.Factorize(mat.NewSymDense(n, append([]float64(nil), a...))) {
		var inv mat.SymDense
		if err := ch.InverseTo(&inv); err == nil {
			for i := 0; i < n; i++ {
				for j := i; j < n; j++ {
					v := inv.At(i, j)
					a[i*n+j], a[j*n+i] = v, v
				}
			}
			return nil
		}
	}
	// indefinite: copy the upper triangle down first, only it is authoritative
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a[j*n+i] = a[i*n+j]
		}
	}
	if err := g.Inverse(n, a); err != nil {
		return solverErrorf(gonumName, "SymInverse", err)
	}
	symmetrize(n, a)

	return nil
}

// Inverse inverts the general matrix a in place via Getrf/Getri.
func (Gonum) Inverse(n int, a []float64) error {
	if err := checkShape(n, a); err != nil {
		return solverErrorf(gonumName, "Inverse", err)
	}
	g := blas64.General{Rows: n, Cols: n, Stride: n, Data: a}
	ipiv := make([]int, n)
	if ok := lapack64.Getrf(g, ipiv); !ok {
		return solverErrorf(gonumName, "Inverse", ErrSingular)
	}
	work := make([]float64, n*n)
	if ok := lapack64.Getri(g, ipiv, work, len(work)); !ok {
		return solverErrorf(gonumName, "Inverse", ErrSingular)
	}

	return nil
}
