// SPDX-License-Identifier: MIT
package mat_test

import (
	"fmt"
	"testing"

	"github.com/katalvlaran/bmat/layout"
	"github.com/katalvlaran/bmat/mat"
	"github.com/katalvlaran/bmat/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQR_Properties(t *testing.T) {
	t.Parallel()

	inputs := map[string]*mat.Matrix{
		"full":      RandomFull(6, 6, 1),
		"symmetric": RandomSPD(5, 2),
		"tall":      RandomFull(6, 3, 3),
		"lower":     mat.NewFromRows(layout.LowerTriangular, RandomRows(4, 4, 4)),
	}
	for name, a := range inputs {
		t.Run(name, func(t *testing.T) {
			q, r, err := mat.QR(a)
			require.NoError(t, err)
			RequireSame(t, a, mat.Multiply(q, r), eps)
			RequireIdentity(t, mat.Multiply(mat.FastTranspose(q), q), eps)
			d := r.FullDims()
			for i := 0; i < d[0]; i++ {
				for j := 0; j < min(i, d[1]); j++ {
					assert.Zero(t, r.Get(i, j))
				}
			}
			if a.FullDims().Square() {
				assert.Equal(t, layout.UpperTriangular, r.Kind())
			}
		})
	}
}

func TestQR_ShortCircuits(t *testing.T) {
	t.Parallel()

	ut := mat.NewFromRows(layout.UpperTriangular, RandomRows(3, 3, 1))
	q, r, err := mat.QR(ut)
	require.NoError(t, err)
	assert.Equal(t, layout.Diagonal, q.Kind())
	RequireSame(t, ut, r, 0)

	q, r, err = mat.QR(mat.NewNull(layout.Dims{3, 2}))
	require.NoError(t, err)
	RequireIdentity(t, q, 0)
	assert.True(t, r.IsNull())

	bd := Grid(t, layout.Diagonal, []int{2, 3}, []int{2, 3}, RandomFull(2, 2, 2), nil, nil, RandomFull(3, 3, 3))
	q, r, err = mat.QR(bd)
	require.NoError(t, err)
	assert.True(t, q.IsBlock())
	assert.Equal(t, layout.Diagonal, q.Kind())
	RequireSame(t, bd, mat.Multiply(q, r), eps)
}

func TestInvert_AllStrategies(t *testing.T) {
	t.Parallel()

	x := RandomFull(2, 3, 9)
	inputs := map[string]*mat.Matrix{
		"diagonal":  mat.NewFromRows(layout.Diagonal, [][]float64{{4, 0, 0}, {0, 3, 0}, {0, 0, 2}}),
		"symmetric": RandomSPD(5, 1),
		"full":      mat.Add(RandomFull(5, 5, 2), mat.Scale(mat.NewIdentity(5), 3)),
		"upper":     mat.Add(mat.NewFromRows(layout.UpperTriangular, RandomRows(4, 4, 3)), mat.Scale(mat.NewIdentity(4), 2)),
		"block diagonal": Grid(t, layout.Diagonal, []int{2, 3}, []int{2, 3},
			RandomSPD(2, 4), nil, nil, RandomSPD(3, 5)),
		"symmetric grid": mat.Reduce(Grid(t, layout.Full, []int{2, 3}, []int{2, 3},
			mat.Add(RandomSPD(2, 6), mat.Scale(mat.NewIdentity(2), 5)), x, mat.Transpose(x),
			mat.Add(RandomSPD(3, 7), mat.Scale(mat.NewIdentity(3), 5))), mat.DefaultTolerance),
	}
	strategies := map[string]mat.InvertFunc{
		"qr":            mat.Invert,
		"direct":        mat.InvertDirect,
		"schur":         mat.SchurInverter(nil),
		"schur-of-qr":   mat.SchurInverter(mat.Invert),
		"direct-native": func(m *mat.Matrix, opts ...mat.Option) (*mat.Matrix, error) { return mat.InvertDirect(m, append(opts, mat.WithSolver(solver.Builtin{}))...) },
	}
	for name, a := range inputs {
		for sname, inv := range strategies {
			t.Run(fmt.Sprintf("%s/%s", name, sname), func(t *testing.T) {
				ai, err := inv(a)
				require.NoError(t, err)
				RequireIdentity(t, mat.Multiply(a, ai), 1e-8)
				RequireIdentity(t, mat.Multiply(ai, a), 1e-8)
			})
		}
	}
}

func TestInvert_KindIsPreserved(t *testing.T) {
	t.Parallel()

	s := RandomSPD(4, 1)
	inv, err := mat.InvertDirect(s)
	require.NoError(t, err)
	assert.Equal(t, layout.Symmetric, inv.Kind())

	x := RandomFull(2, 2, 2)
	g := mat.Reduce(Grid(t, layout.Full, []int{2, 2}, []int{2, 2}, RandomSPD(2, 3), x, mat.Transpose(x), RandomSPD(2, 4)), mat.DefaultTolerance)
	require.Equal(t, layout.Symmetric, g.Kind())
	gi, err := mat.InvertSchur(g, nil)
	require.NoError(t, err)
	assert.True(t, gi.IsBlock())
	assert.Equal(t, layout.Symmetric, gi.Kind())
}

func TestInvert_Singular(t *testing.T) {
	t.Parallel()

	singular := map[string]*mat.Matrix{
		"rank one":      mat.NewFromRows(layout.Full, [][]float64{{1, 2}, {2, 4}}),
		"zero diagonal": mat.NewFromRows(layout.Diagonal, [][]float64{{1, 0}, {0, 0}}),
		"null":          mat.NewNull(layout.Dims{3, 3}),
	}
	for name, m := range singular {
		t.Run(name, func(t *testing.T) {
			_, err := mat.Invert(m)
			require.ErrorIs(t, err, mat.ErrSingular)
			_, err = mat.InvertDirect(m)
			require.ErrorIs(t, err, mat.ErrSingular)
		})
	}
	RequirePanicsIs(t, mat.ErrNonSquare, func() { _, _ = mat.Invert(RandomFull(2, 3, 1)) })
}

func TestInvertCov(t *testing.T) {
	t.Parallel()

	cov := RandomSPD(5, 3)
	ci, err := mat.InvertCov(nil, cov)
	require.NoError(t, err)
	RequireIdentity(t, mat.Multiply(cov, ci), 1e-8)

	ci, err = mat.InvertCov(mat.Invert, cov)
	require.NoError(t, err)
	RequireIdentity(t, mat.Multiply(cov, ci), 1e-8)

	bad := mat.NewFromRows(layout.Symmetric, [][]float64{{1, 0}, {0, -1}})
	_, err = mat.InvertCov(nil, bad)
	require.ErrorIs(t, err, mat.ErrSingular)
}

func TestEigen(t *testing.T) {
	t.Parallel()

	for _, backend := range []mat.DenseSolver{solver.Gonum{}, solver.Builtin{}} {
		t.Run(fmt.Sprintf("%T", backend), func(t *testing.T) {
			s := mat.NewFromRows(layout.Full, [][]float64{{2, 1}, {1, 2}})
			vals, vecs, err := mat.Eigen(s, mat.WithSolver(backend))
			require.NoError(t, err)
			assert.Equal(t, layout.Diagonal, vals.Kind())
			RequireRows(t, [][]float64{{1, 0}, {0, 3}}, vals, 1e-10)
			RequireSame(t, mat.Multiply(vecs, vals), mat.Multiply(s, vecs), 1e-10)

			spd := RandomSPD(6, 4)
			vals, vecs, err = mat.Eigen(spd, mat.WithSolver(backend))
			require.NoError(t, err)
			RequireSame(t, mat.Multiply(vecs, vals), mat.Multiply(spd, vecs), 1e-8)
			RequireIdentity(t, mat.Multiply(mat.FastTranspose(vecs), vecs), 1e-8)
		})
	}

	d := mat.NewFromRows(layout.Diagonal, [][]float64{{3, 0}, {0, 1}})
	vals, vecs, err := mat.Eigen(d)
	require.NoError(t, err)
	RequireSame(t, d, vals, 0)
	RequireIdentity(t, vecs, 0)

	bd := Grid(t, layout.Diagonal, []int{2, 2}, []int{2, 2}, RandomSPD(2, 5), nil, nil, RandomSPD(2, 6))
	vals, vecs, err = mat.Eigen(bd)
	require.NoError(t, err)
	assert.True(t, vecs.IsBlock())
	RequireSame(t, mat.Multiply(vecs, vals), mat.Multiply(bd, vecs), 1e-8)

	_, _, err = mat.Eigen(mat.NewFromRows(layout.Full, [][]float64{{1, 2}, {3, 4}}))
	require.ErrorIs(t, err, mat.ErrNotSymmetric)
	RequirePanicsIs(t, mat.ErrNonSquare, func() { _, _, _ = mat.Eigen(RandomFull(2, 3, 1)) })
}

func TestBackSub(t *testing.T) {
	t.Parallel()

	u := mat.NewFromRows(layout.UpperTriangular, [][]float64{{2, 1}, {0, 4}})
	b := mat.NewFromRows(layout.Full, [][]float64{{3}, {8}})
	x, err := mat.BackSub(u, b)
	require.NoError(t, err)
	RequireRows(t, [][]float64{{0.5}, {2}}, x, 1e-15)

	d := mat.NewFromRows(layout.Diagonal, [][]float64{{2, 0}, {0, 4}})
	x, err = mat.BackSub(d, b)
	require.NoError(t, err)
	RequireRows(t, [][]float64{{1.5}, {2}}, x, 1e-15)

	_, err = mat.BackSub(mat.NewFromRows(layout.Diagonal, [][]float64{{2, 0}, {0, 0}}), b)
	require.ErrorIs(t, err, mat.ErrSingular)
	_, err = mat.BackSub(mat.NewFromRows(layout.UpperTriangular, [][]float64{{2, 1}, {0, 0}}), b)
	require.ErrorIs(t, err, mat.ErrSingular)
	RequirePanicsIs(t, mat.ErrDimensionMismatch, func() { _, _ = mat.BackSub(u, RandomFull(3, 1, 1)) })

	// block upper triangular system
	a := mat.NewBlock(layout.UpperTriangular, []int{2, 2}, []int{2, 2})
	a.SetBlock(0, 0, u)
	a.SetBlock(0, 1, RandomFull(2, 2, 2))
	a.SetBlock(1, 1, mat.NewFromRows(layout.Diagonal, [][]float64{{3, 0}, {0, 5}}))
	rhs := RandomFull(4, 3, 3)
	x, err = mat.BackSub(a, rhs)
	require.NoError(t, err)
	RequireSame(t, rhs, mat.Multiply(a, x), 1e-12)
}
