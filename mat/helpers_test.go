// SPDX-License-Identifier: MIT
// Package mat_test contains shared fixtures for the block engine tests.
//
// Purpose:
//   - Deterministic random fixtures (fixed seeds).
//   - Element-wise comparisons through the public Get accessor, so every
//     test checks logical values independently of storage kind and blocking.

package mat_test

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/bmat/layout"
	"github.com/katalvlaran/bmat/mat"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

// Rows returns the logical values of m as a row slice.
func Rows(m *mat.Matrix) [][]float64 {
	d := m.FullDims()
	out := make([][]float64, d[0])
	for i := range out {
		out[i] = make([]float64, d[1])
		for j := range out[i] {
			out[i][j] = m.Get(i, j)
		}
	}

	return out
}

// RequireRows fails unless m has the dims of want and matches it within tol.
func RequireRows(t *testing.T, want [][]float64, m *mat.Matrix, tol float64) {
	t.Helper()
	d := m.FullDims()
	require.Equal(t, len(want), d[0], "rows of %s", m)
	for i, row := range want {
		require.Equal(t, len(row), d[1], "cols of %s", m)
		for j, w := range row {
			if got := m.Get(i, j); math.Abs(got-w) > tol {
				t.Fatalf("%s at (%d,%d): want %g, got %g", m, i, j, w, got)
			}
		}
	}
}

// RequireSame fails unless a and b agree element-wise within tol.
func RequireSame(t *testing.T, a, b *mat.Matrix, tol float64) {
	t.Helper()
	RequireRows(t, Rows(a), b, tol)
}

// RequireIdentity fails unless m is the identity within tol.
func RequireIdentity(t *testing.T, m *mat.Matrix, tol float64) {
	t.Helper()
	d := m.FullDims()
	require.True(t, d.Square(), "%s is not square", m)
	RequireSame(t, mat.NewIdentity(d[0]), m, tol)
}

// RandomRows returns r×c values in [-1,1) from a fixed seed.
func RandomRows(r, c int, seed int64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([][]float64, r)
	for i := range out {
		out[i] = make([]float64, c)
		for j := range out[i] {
			out[i][j] = 2*rng.Float64() - 1
		}
	}

	return out
}

// RandomFull is a Full leaf of RandomRows.
func RandomFull(r, c int, seed int64) *mat.Matrix {
	return mat.NewFromRows(layout.Full, RandomRows(r, c, seed))
}

// RandomSPD returns a symmetric positive-definite n×n leaf: G·Gᵀ + n·I.
func RandomSPD(n int, seed int64) *mat.Matrix {
	g := RandomRows(n, n, seed)
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		for j := range rows[i] {
			s := 0.0
			for k := 0; k < n; k++ {
				s += g[i][k] * g[j][k]
			}
			if i == j {
				s += float64(n)
			}
			rows[i][j] = s
		}
	}

	return mat.NewFromRows(layout.Symmetric, rows)
}

// RefMul is the naive product of the logical values of a and b.
func RefMul(a, b *mat.Matrix) [][]float64 {
	x, y := Rows(a), Rows(b)
	n, k, m := len(x), len(y), 0
	if k > 0 {
		m = len(y[0])
	}
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, m)
		for j := 0; j < m; j++ {
			for l := 0; l < k; l++ {
				out[i][j] += x[i][l] * y[l][j]
			}
		}
	}

	return out
}

// RequirePanicsIs fails unless fn panics with an error matching target.
func RequirePanicsIs(t *testing.T, target error, fn func()) {
	t.Helper()
	var got any
	func() {
		defer func() { got = recover() }()
		fn()
	}()
	require.NotNil(t, got, "expected a panic wrapping %v", target)
	err, ok := got.(error)
	require.True(t, ok, "panic value %v is not an error", got)
	require.True(t, errors.Is(err, target), "panic %v does not wrap %v", err, target)
}

// Grid builds a Full-grid block from leaves laid out row-major; nil leaves
// stay unset.
func Grid(t *testing.T, kind layout.Kind, rowDims, colDims []int, cells ...*mat.Matrix) *mat.Matrix {
	t.Helper()
	m := mat.NewBlock(kind, rowDims, colDims)
	require.Len(t, cells, len(rowDims)*len(colDims))
	for i := range rowDims {
		for j := range colDims {
			if c := cells[i*len(colDims)+j]; c != nil {
				m.SetBlock(i, j, c)
			}
		}
	}

	return m
}
