// SPDX-License-Identifier: MIT
// Package matfile_test contains shared fixtures for the file format tests.

package matfile_test

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/bmat/layout"
	"github.com/katalvlaran/bmat/mat"
	"github.com/stretchr/testify/require"
)

// randomLeaf returns a leaf of kind k with payload values in [-1,1) drawn
// from a fixed seed; values are scaled so they span several magnitudes.
func randomLeaf(k layout.Kind, d layout.Dims, seed int64) *mat.Matrix {
	rng := rand.New(rand.NewSource(seed))
	payload := make([]float64, k.Size(d))
	for i := range payload {
		payload[i] = (2*rng.Float64() - 1) * math.Pow(10, float64(rng.Intn(9)-4))
	}

	return mat.NewLeaf(k, d, payload)
}

// fixture returns a collection exercising every kind, nesting, empty cells,
// mirrored cells and transposed views.
func fixture(t *testing.T) *mat.Collection {
	t.Helper()

	inner := mat.NewBlock(layout.Diagonal, []int{2, 1}, []int{2, 1})
	inner.SetBlock(0, 0, randomLeaf(layout.UpperTriangular, layout.Dims{2, 2}, 1))
	inner.SetBlock(1, 1, randomLeaf(layout.Full, layout.Dims{1, 1}, 2))

	sym := mat.NewBlock(layout.Symmetric, []int{3, 2}, []int{3, 2})
	sym.SetBlock(0, 0, inner)
	sym.SetBlock(0, 1, randomLeaf(layout.Full, layout.Dims{3, 2}, 3))
	sym.SetBlock(1, 1, randomLeaf(layout.Symmetric, layout.Dims{2, 2}, 4))
	sym.SetLabel("cov")

	full := mat.NewBlock(layout.Full, []int{2, 2}, []int{2, 3})
	full.SetBlock(0, 0, randomLeaf(layout.Diagonal, layout.Dims{2, 2}, 5))
	full.SetBlock(0, 1, randomLeaf(layout.Full, layout.Dims{2, 3}, 6))
	full.SetBlock(1, 0, randomLeaf(layout.LowerTriangular, layout.Dims{2, 2}, 9))
	view := mat.FastTranspose(full)
	view.SetLabel("transposed")

	ut := mat.FastTranspose(randomLeaf(layout.UpperTriangular, layout.Dims{3, 3}, 7))
	ut.SetLabel("lower")

	null := mat.NewNull(layout.Dims{2, 4})
	null.SetLabel("zero")

	c := mat.NewCollection(sym, view, ut, null, randomLeaf(layout.Full, layout.Dims{2, 3}, 8))
	require.Equal(t, 5, c.Len())

	return c
}

// requireCollectionsEqual fails unless both collections hold matrices with
// equal labels, full dims and values within tol.
func requireCollectionsEqual(t *testing.T, want, got *mat.Collection, tol float64) {
	t.Helper()
	require.Equal(t, want.Len(), got.Len())
	require.Equal(t, want.Labels(), got.Labels())
	for i := 0; i < want.Len(); i++ {
		a, b := want.At(i), got.At(i)
		require.Equal(t, a.FullDims(), b.FullDims(), "matrix %d", i)
		require.True(t, mat.CompareValues(a, b, tol), "matrix %d (%s) values differ", i, a.Label())
		require.True(t, mat.CompareStructure(a, b), "matrix %d (%s) structure differs", i, a.Label())
	}
}

// failingWriter rejects every write.
type failingWriter struct{}

var errDiskFull = errors.New("disk full")

func (failingWriter) Write([]byte) (int, error) { return 0, errDiskFull }
