// SPDX-License-Identifier: MIT

package dense

import (
	"math"

	"github.com/katalvlaran/bmat/internal/parallel"
)

// QR computes a Householder factorization A = Q·R of an m×n matrix.
// Implementation:
//   - Stage 1: Clone A into R and start Qᵀ as the m×m identity.
//   - Stage 2: For k=0..min(m-1,n)-1, build the reflector of column k and
//     apply it to the trailing columns of R and to every column of Qᵀ.
//     Columns are processed sequentially; the column updates of one
//     reflection are independent and run through parallel.For.
//   - Stage 3: Return Q = (Qᵀ)ᵀ and R with its strictly lower part zeroed.
//
// Returns:
//   - Q: m×m orthogonal.
//   - R: m×n upper trapezoidal (upper triangular for square input).
//
// Errors:
//   - none for well-formed input; a zero column is skipped (its reflector is the identity).
//
// Complexity:
//   - Time O(m²·n), Space O(m² + m·n).
func QR(a *Dense, cfg parallel.Config) (q, r *Dense, err error) {
	m, n := a.r, a.c
	r = a.Clone()
	qt, err := Identity(m)
	if err != nil {
		return nil, nil, denseErrorf(opQR, err)
	}

	v := make([]float64, m)
	steps := min(m-1, n)
	var (
		i, k       int
		norm, beta float64
		alpha, tau float64
	)
	for k = 0; k < steps; k++ {
		norm = 0
		for i = k; i < m; i++ {
			norm += r.data[i*n+k] * r.data[i*n+k]
		}
		norm = math.Sqrt(norm)
		if norm == 0 {
			continue // zero column
		}
		alpha = -math.Copysign(norm, r.data[k*n+k])

		for i = 0; i < m; i++ {
			v[i] = 0
		}
		for i = k; i < m; i++ {
			v[i] = r.data[i*n+k]
		}
		v[k] -= alpha

		beta = 0
		for i = k; i < m; i++ {
			beta += v[i] * v[i]
		}
		if beta == 0 {
			continue
		}
		tau = 2.0 / beta

		// R[:,j] -= tau·v·(vᵀR[:,j]) for j >= k
		kk := k
		parallel.For(n-kk, func(jj int) {
			reflect(r.data, n, kk+jj, kk, m, v, tau)
		}, cfg)
		// Qᵀ[:,j] -= tau·v·(vᵀQᵀ[:,j]) for all j
		parallel.For(m, func(j int) {
			reflect(qt.data, m, j, kk, m, v, tau)
		}, cfg)
	}

	// Clean the sub-diagonal of R: reflections leave round-off there.
	var j int
	for i = 1; i < m; i++ {
		for j = 0; j < min(i, n); j++ {
			r.data[i*n+j] = 0
		}
	}

	return qt.T(), r, nil
}

// reflect applies I - tau·v·vᵀ to column j of the row-major buffer data
// (row stride `stride`), touching rows [from, to).
func reflect(data []float64, stride, j, from, to int, v []float64, tau float64) {
	var sum float64
	var i int
	for i = from; i < to; i++ {
		sum += v[i] * data[i*stride+j]
	}
	if sum == 0 {
		return
	}
	sum *= tau
	for i = from; i < to; i++ {
		data[i*stride+j] -= v[i] * sum
	}
}
