// SPDX-License-Identifier: MIT
// Package dense_test contains test helpers.
//
// Purpose:
//   - Provide small, deterministic fixtures and tolerance comparisons for the kernels.

package dense_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/bmat/dense"
	"github.com/stretchr/testify/require"
)

const tol = 1e-9

// MustDense builds an r×c Dense from rows or fails the test.
func MustDense(t *testing.T, rows [][]float64) *dense.Dense {
	t.Helper()
	r, c := len(rows), len(rows[0])
	flat := make([]float64, 0, r*c)
	for _, row := range rows {
		require.Len(t, row, c)
		flat = append(flat, row...)
	}
	m, err := dense.NewDenseFrom(r, c, flat)
	require.NoError(t, err)

	return m
}

// RandomDense fills an r×c Dense with values in [-1,1) from a fixed seed.
func RandomDense(t *testing.T, r, c int, seed int64) *dense.Dense {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	m, err := dense.NewDense(r, c)
	require.NoError(t, err)
	for i := range m.Data() {
		m.Data()[i] = 2*rng.Float64() - 1
	}

	return m
}

// AllClose fails the test unless a and b agree elementwise within eps.
func AllClose(t *testing.T, want, got *dense.Dense, eps float64) {
	t.Helper()
	require.Equal(t, want.Rows(), got.Rows())
	require.Equal(t, want.Cols(), got.Cols())
	for i, w := range want.Data() {
		if math.Abs(w-got.Data()[i]) > eps {
			t.Fatalf("entry %d (%d,%d): want %g, got %g", i, i/want.Cols(), i%want.Cols(), w, got.Data()[i])
		}
	}
}

// MustMul is dense.Mul or a fatal failure.
func MustMul(t *testing.T, a, b *dense.Dense) *dense.Dense {
	t.Helper()
	m, err := dense.Mul(a, b)
	require.NoError(t, err)

	return m
}
