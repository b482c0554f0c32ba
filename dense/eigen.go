// SPDX-License-Identifier: MIT

package dense

import (
	"fmt"
	"math"
	"sort"
)

// Defaults for the Jacobi eigensolver.
const (
	DefaultEigenTol     = 1e-12
	DefaultEigenMaxIter = 100 // sweeps
)

// SymEigen performs cyclic Jacobi eigenvalue decomposition of a symmetric matrix.
// Implementation:
//   - Stage 1: Validate squareness and symmetry within tol.
//   - Stage 2: Sweep all (p,q) pairs applying rotations that zero A[p,q],
//     accumulating them into V, until the off-diagonal Frobenius norm drops
//     below tol·‖A‖ or maxIter sweeps are exhausted.
//   - Stage 3: Sort eigenpairs by ascending eigenvalue.
//
// Returns:
//   - vals: eigenvalues ascending.
//   - vecs: n×n, column i is the unit eigenvector of vals[i].
//
// Errors:
//   - ErrNonSquare, ErrAsymmetry, ErrEigenFailed.
//
// Complexity:
//   - Time O(n³) per sweep, Space O(n²).
func SymEigen(a *Dense, tol float64, maxIter int) ([]float64, *Dense, error) {
	if err := ValidateSymmetric(a, math.Max(tol, 1e-9)*scale(a)); err != nil {
		return nil, nil, denseErrorf(opEigen, err)
	}
	n := a.r
	w := a.Clone().data
	v, _ := Identity(n)

	var (
		p, q, i, sweep int
		app, aqq, apq  float64
		theta, t, c, s float64
		aip, aiq       float64
	)
	limit := tol * scale(a)
	converged := false
	for sweep = 0; sweep < maxIter; sweep++ {
		if offNorm(w, n) <= limit {
			converged = true
			break
		}
		for p = 0; p < n-1; p++ {
			for q = p + 1; q < n; q++ {
				apq = w[p*n+q]
				if apq == 0 {
					continue
				}
				app, aqq = w[p*n+p], w[q*n+q]
				theta = (aqq - app) / (2 * apq)
				t = math.Copysign(1.0/(math.Abs(theta)+math.Sqrt(theta*theta+1)), theta)
				c = 1.0 / math.Sqrt(t*t+1)
				s = t * c
				for i = 0; i < n; i++ {
					if i == p || i == q {
						continue
					}
					aip, aiq = w[i*n+p], w[i*n+q]
					w[i*n+p] = c*aip - s*aiq
					w[p*n+i] = w[i*n+p]
					w[i*n+q] = s*aip + c*aiq
					w[q*n+i] = w[i*n+q]
				}
				w[p*n+p] = app - t*apq
				w[q*n+q] = aqq + t*apq
				w[p*n+q], w[q*n+p] = 0, 0
				for i = 0; i < n; i++ {
					aip, aiq = v.data[i*n+p], v.data[i*n+q]
					v.data[i*n+p] = c*aip - s*aiq
					v.data[i*n+q] = s*aip + c*aiq
				}
			}
		}
	}
	if !converged && offNorm(w, n) > limit {
		return nil, nil, denseErrorf(opEigen, fmt.Errorf("%d sweeps: %w", maxIter, ErrEigenFailed))
	}

	order := make([]int, n)
	for i = range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool { return w[order[x]*n+order[x]] < w[order[y]*n+order[y]] })
	vals := make([]float64, n)
	vecs := &Dense{r: n, c: n, data: make([]float64, n*n)}
	for dst, src := range order {
		vals[dst] = w[src*n+src]
		for i = 0; i < n; i++ {
			vecs.data[i*n+dst] = v.data[i*n+src]
		}
	}

	return vals, vecs, nil
}

// offNorm returns the Frobenius norm of the off-diagonal part.
func offNorm(w []float64, n int) float64 {
	var s float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				s += w[i*n+j] * w[i*n+j]
			}
		}
	}

	return math.Sqrt(s)
}

// scale returns max(1, max|a_ij|) so tolerances stay relative.
func scale(a *Dense) float64 {
	m := 1.0
	for _, x := range a.data {
		if v := math.Abs(x); v > m {
			m = v
		}
	}

	return m
}
