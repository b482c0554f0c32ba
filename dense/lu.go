// SPDX-License-Identifier: MIT

package dense

import (
	"fmt"
	"math"
)

// LU is a compact LU factorization with partial pivoting, P·A = L·U.
// L (unit diagonal, implicit) and U share the factors buffer.
type LU struct {
	n       int
	factors []float64 // row-major; strict lower = L, upper incl. diagonal = U
	piv     []int     // row i of P·A is row piv[i] of A
}

// Factorize computes the LU factorization of the square matrix a.
// Implementation:
//   - Stage 1: Validate a is square, copy it into the factor buffer.
//   - Stage 2: For every column choose the largest |pivot| below the diagonal,
//     swap rows, then eliminate (right-looking Doolittle).
//
// Errors:
//   - ErrNonSquare, ErrSingular (exactly zero pivot after pivoting).
//
// Complexity:
//   - Time O(n³), Space O(n²).
func Factorize(a *Dense) (*LU, error) {
	if err := ValidateSquare(a); err != nil {
		return nil, denseErrorf(opLU, err)
	}
	n := a.r
	f := make([]float64, n*n)
	copy(f, a.data)
	piv := make([]int, n)
	for i := range piv {
		piv[i] = i
	}

	var (
		i, j, k, p int
		best, l    float64
	)
	for k = 0; k < n; k++ {
		p, best = k, math.Abs(f[k*n+k])
		for i = k + 1; i < n; i++ {
			if v := math.Abs(f[i*n+k]); v > best {
				p, best = i, v
			}
		}
		if best == 0 {
			return nil, denseErrorf(opLU, fmt.Errorf("column %d: %w", k, ErrSingular))
		}
		if p != k {
			for j = 0; j < n; j++ {
				f[k*n+j], f[p*n+j] = f[p*n+j], f[k*n+j]
			}
			piv[k], piv[p] = piv[p], piv[k]
		}
		for i = k + 1; i < n; i++ {
			l = f[i*n+k] / f[k*n+k]
			f[i*n+k] = l
			if l == 0 {
				continue
			}
			for j = k + 1; j < n; j++ {
				f[i*n+j] -= l * f[k*n+j]
			}
		}
	}

	return &LU{n: n, factors: f, piv: piv}, nil
}

// SolveVec solves A·x = b in place of x (len n). b is not modified.
func (lu *LU) SolveVec(b, x []float64) {
	n := lu.n
	var i, k int
	var sum float64
	for i = 0; i < n; i++ {
		sum = b[lu.piv[i]]
		for k = 0; k < i; k++ {
			sum -= lu.factors[i*n+k] * x[k]
		}
		x[i] = sum
	}
	for i = n - 1; i >= 0; i-- {
		sum = x[i]
		for k = i + 1; k < n; k++ {
			sum -= lu.factors[i*n+k] * x[k]
		}
		x[i] = sum / lu.factors[i*n+i]
	}
}

// Det returns the determinant of A.
func (lu *LU) Det() float64 {
	d := 1.0
	for i := 0; i < lu.n; i++ {
		d *= lu.factors[i*lu.n+i]
	}
	// sign of the permutation: count cycles
	seen := make([]bool, lu.n)
	for i := 0; i < lu.n; i++ {
		if seen[i] {
			continue
		}
		length := 0
		for j := i; !seen[j]; j = lu.piv[j] {
			seen[j] = true
			length++
		}
		if length%2 == 0 {
			d = -d
		}
	}

	return d
}

// Inverse returns A⁻¹ for square a using LU with partial pivoting.
// Errors:
//   - ErrNonSquare, ErrSingular.
//
// Complexity:
//   - Time O(n³), Space O(n²).
func Inverse(a *Dense) (*Dense, error) {
	lu, err := Factorize(a)
	if err != nil {
		return nil, denseErrorf(opInverse, err)
	}
	n := a.r
	inv := &Dense{r: n, c: n, data: make([]float64, n*n)}
	e := make([]float64, n)
	x := make([]float64, n)
	var col, i int
	for col = 0; col < n; col++ {
		for i = range e {
			e[i] = 0
		}
		e[col] = 1
		lu.SolveVec(e, x)
		for i = 0; i < n; i++ {
			inv.data[i*n+col] = x[i]
		}
	}

	return inv, nil
}

// InverseFlat inverts the row-major n×n array a in place.
func InverseFlat(n int, a []float64) error {
	if err := validateFlat(n, a); err != nil {
		return denseErrorf(opInverse, err)
	}
	inv, err := Inverse(&Dense{r: n, c: n, data: a})
	if err != nil {
		return err
	}
	copy(a, inv.data)

	return nil
}
