// SPDX-License-Identifier: MIT
package dense_test

import (
	"fmt"
	"testing"

	"github.com/katalvlaran/bmat/dense"
	"github.com/katalvlaran/bmat/internal/parallel"
	"github.com/stretchr/testify/require"
)

func TestNewDense_BadShape(t *testing.T) {
	t.Parallel()

	_, err := dense.NewDense(0, 3)
	require.ErrorIs(t, err, dense.ErrBadShape)
	_, err = dense.NewDenseFrom(2, 2, []float64{1, 2, 3})
	require.ErrorIs(t, err, dense.ErrBadShape)

	m, err := dense.NewDense(2, 3)
	require.NoError(t, err)
	_, err = m.At(2, 0)
	require.ErrorIs(t, err, dense.ErrOutOfRange)
	require.NoError(t, m.Set(1, 2, 5))
	v, err := m.At(1, 2)
	require.NoError(t, err)
	require.Equal(t, 5.0, v)
	require.Equal(t, "[0, 0, 0]\n[0, 0, 5]\n", m.String())
}

func TestQR_ReconstructsAndIsOrthogonal(t *testing.T) {
	t.Parallel()

	for _, sh := range [][2]int{{1, 1}, {3, 3}, {6, 6}, {5, 3}, {3, 5}, {40, 40}} {
		t.Run(fmt.Sprintf("%dx%d", sh[0], sh[1]), func(t *testing.T) {
			a := RandomDense(t, sh[0], sh[1], int64(sh[0]*100+sh[1]))
			q, r, err := dense.QR(a, parallel.DefaultConfig())
			require.NoError(t, err)

			AllClose(t, a, MustMul(t, q, r), tol)
			id, _ := dense.Identity(sh[0])
			AllClose(t, id, MustMul(t, q.T(), q), tol)
			for i := 1; i < r.Rows(); i++ {
				for j := 0; j < min(i, r.Cols()); j++ {
					v, _ := r.At(i, j)
					require.Zero(t, v)
				}
			}
		})
	}
}

func TestQR_ZeroColumn(t *testing.T) {
	t.Parallel()

	a := MustDense(t, [][]float64{{0, 1}, {0, 2}})
	q, r, err := dense.QR(a, parallel.Sequential())
	require.NoError(t, err)
	AllClose(t, a, MustMul(t, q, r), tol)
}

func TestInverse_PivotingAndSingular(t *testing.T) {
	t.Parallel()

	// zero leading pivot: needs row exchange
	a := MustDense(t, [][]float64{{0, 2, 1}, {1, 1, 0}, {3, 0, 1}})
	inv, err := dense.Inverse(a)
	require.NoError(t, err)
	id, _ := dense.Identity(3)
	AllClose(t, id, MustMul(t, a, inv), tol)

	lu, err := dense.Factorize(a)
	require.NoError(t, err)
	require.InDelta(t, -5.0, lu.Det(), tol)

	_, err = dense.Inverse(MustDense(t, [][]float64{{1, 2}, {2, 4}}))
	require.ErrorIs(t, err, dense.ErrSingular)

	_, err = dense.Inverse(MustDense(t, [][]float64{{1, 2, 3}}))
	require.ErrorIs(t, err, dense.ErrNonSquare)
}

func TestInverseFlat(t *testing.T) {
	t.Parallel()

	a := []float64{4, 7, 2, 6}
	require.NoError(t, dense.InverseFlat(2, a))
	require.InDeltaSlice(t, []float64{0.6, -0.7, -0.2, 0.4}, a, tol)
	require.ErrorIs(t, dense.InverseFlat(2, []float64{1}), dense.ErrBadShape)
}

func TestBackSub(t *testing.T) {
	t.Parallel()

	u := MustDense(t, [][]float64{{2, 1, -1}, {0, 3, 2}, {0, 0, 4}})
	b := MustDense(t, [][]float64{{1, 0}, {2, 1}, {8, 4}})
	x, err := dense.BackSub(u, b)
	require.NoError(t, err)
	AllClose(t, b, MustMul(t, u, x), tol)

	_, err = dense.BackSub(MustDense(t, [][]float64{{1, 1}, {0, 0}}), MustDense(t, [][]float64{{1}, {1}}))
	require.ErrorIs(t, err, dense.ErrSingular)
	_, err = dense.BackSub(u, MustDense(t, [][]float64{{1}}))
	require.ErrorIs(t, err, dense.ErrDimensionMismatch)
}

func TestSymEigen(t *testing.T) {
	t.Parallel()

	a := MustDense(t, [][]float64{{2, 1, 0}, {1, 2, 1}, {0, 1, 2}})
	vals, vecs, err := dense.SymEigen(a, dense.DefaultEigenTol, dense.DefaultEigenMaxIter)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{2 - 1.4142135623730951, 2, 2 + 1.4142135623730951}, vals, 1e-9)

	// A·v = λ·v for every column
	av := MustMul(t, a, vecs)
	for j, l := range vals {
		for i := 0; i < 3; i++ {
			x, _ := av.At(i, j)
			y, _ := vecs.At(i, j)
			require.InDelta(t, l*y, x, 1e-9)
		}
	}

	_, _, err = dense.SymEigen(MustDense(t, [][]float64{{1, 2}, {0, 1}}), dense.DefaultEigenTol, 10)
	require.ErrorIs(t, err, dense.ErrAsymmetry)
}
