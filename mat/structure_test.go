// SPDX-License-Identifier: MIT
package mat_test

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/katalvlaran/bmat/layout"
	"github.com/katalvlaran/bmat/mat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplate(t *testing.T) {
	t.Parallel()

	x := RandomFull(2, 3, 1)
	s := mat.Reduce(Grid(t, layout.Full, []int{2, 3}, []int{2, 3}, RandomSPD(2, 2), x, mat.Transpose(x), RandomSPD(3, 3)), mat.DefaultTolerance)
	s.SetLabel("cov")
	require.Equal(t, layout.Symmetric, s.Kind())

	tpl := mat.Template(s, nil, 0)
	assert.True(t, tpl.IsBlock())
	assert.Equal(t, layout.Symmetric, tpl.Kind())
	assert.Equal(t, "cov", tpl.Label())
	assert.True(t, mat.CompareStructure(s, tpl))
	assert.Zero(t, mat.PNorm(tpl, 0))
	assert.Equal(t, layout.Symmetric, tpl.GetBlock(0, 0).Kind())

	full := layout.Full
	ft := mat.Template(s, &full, 0)
	assert.Equal(t, layout.Full, ft.Kind())
	assert.True(t, ft.HasBlock(1, 0))
	assert.Equal(t, layout.Full, ft.GetBlock(1, 1).Kind())

	diag := layout.Diagonal
	dt := mat.Template(s, &diag, 1)
	assert.Equal(t, layout.Diagonal, dt.Kind())
	assert.Equal(t, layout.Full, dt.GetBlock(0, 0).Kind(), "beyond the depth limit cells become Full")
	assert.True(t, dt.GetBlock(0, 1).IsNull())

	null := mat.NewNull(layout.Dims{2, 3})
	assert.True(t, mat.Template(null, nil, 0).IsNull())
	assert.Equal(t, layout.Full, mat.Template(RandomFull(2, 3, 4), &diag, 0).Kind(), "square kind degrades on rectangular dims")
}

func TestTemplateOfSet(t *testing.T) {
	t.Parallel()

	ut := mat.NewFromRows(layout.UpperTriangular, RandomRows(3, 3, 1))
	lt := mat.NewFromRows(layout.LowerTriangular, RandomRows(3, 3, 2))
	d := mat.NewFromRows(layout.Diagonal, RandomRows(3, 3, 3))
	s := RandomSPD(3, 4)

	assert.Equal(t, layout.Full, mat.TemplateOfSet(nil, 0, ut, lt).Kind())
	assert.Equal(t, layout.Symmetric, mat.TemplateOfSet(nil, 0, d, s).Kind())
	assert.Equal(t, layout.UpperTriangular, mat.TemplateOfSet(nil, 0, d, nil, ut).Kind())
	assert.Nil(t, mat.TemplateOfSet(nil, 0))

	a2 := Grid(t, layout.Diagonal, []int{1, 2}, []int{1, 2}, RandomFull(1, 1, 5), nil, nil, RandomFull(2, 2, 6))
	b := Grid(t, layout.Full, []int{1, 2}, []int{1, 2}, RandomFull(1, 1, 7), RandomFull(1, 2, 8), nil, nil)
	u := mat.TemplateOfSet(nil, 0, a2, b)
	assert.True(t, u.IsBlock())
	assert.Equal(t, layout.Full, u.Kind())
	assert.True(t, u.HasBlock(0, 1))
	assert.True(t, u.HasBlock(1, 1))
	assert.False(t, u.HasBlock(1, 0))

	other := Grid(t, layout.Full, []int{2, 1}, []int{2, 1}, RandomFull(2, 2, 9), nil, nil, RandomFull(1, 1, 10))
	mixed := mat.TemplateOfSet(nil, 0, a2, other)
	assert.False(t, mixed.IsBlock())
	assert.Equal(t, layout.Full, mixed.Kind())

	RequirePanicsIs(t, mat.ErrDimensionMismatch, func() { mat.TemplateOfSet(nil, 0, ut, RandomFull(2, 2, 1)) })
}

func TestTemplateProduct(t *testing.T) {
	t.Parallel()

	d := mat.NewFromRows(layout.Diagonal, RandomRows(3, 3, 1))
	ut := mat.NewFromRows(layout.UpperTriangular, RandomRows(3, 3, 2))
	s := RandomSPD(3, 3)
	assert.Equal(t, layout.UpperTriangular, mat.TemplateProduct(d, ut).Kind())
	assert.Equal(t, layout.Full, mat.TemplateProduct(s, s).Kind())
	assert.True(t, mat.TemplateProduct(mat.NewNull(layout.Dims{2, 3}), ut).IsNull())

	a := Grid(t, layout.Full, []int{2, 3}, []int{3, 2}, RandomFull(2, 3, 4), nil, nil, RandomFull(3, 2, 5))
	b := Grid(t, layout.Full, []int{3, 2}, []int{1, 1}, nil, RandomFull(3, 1, 6), RandomFull(2, 1, 7), nil)
	p := mat.TemplateProduct(a, b)
	require.True(t, p.IsBlock())
	assert.Equal(t, layout.Dims{5, 2}, p.FullDims())
	// a(0,0)·b(0,1) and a(1,1)·b(1,0) are the only occupied products
	assert.False(t, p.HasBlock(0, 0))
	assert.True(t, p.HasBlock(0, 1))
	assert.True(t, p.HasBlock(1, 0))
	assert.False(t, p.HasBlock(1, 1))
	assert.True(t, mat.CompareStructure(p, mat.Multiply(a, b, mat.WithoutReduce())))
}

func TestCompareStructure(t *testing.T) {
	t.Parallel()

	a := Grid(t, layout.Full, []int{1, 2}, []int{2, 1}, RandomFull(1, 2, 1), nil, RandomFull(2, 2, 2), RandomFull(2, 1, 3))
	b := Grid(t, layout.Full, []int{1, 2}, []int{2, 1}, nil, RandomFull(1, 1, 4), RandomFull(2, 2, 5), nil)
	c := Grid(t, layout.Full, []int{2, 1}, []int{2, 1}, RandomFull(2, 2, 6), nil, nil, RandomFull(1, 1, 7))

	assert.True(t, mat.CompareStructure(a, b))
	assert.False(t, mat.CompareStructure(a, c))
	assert.False(t, mat.CompareStructure(a, RandomFull(3, 3, 8)))
	assert.True(t, mat.CompareStructure(a, mat.NewNull(layout.Dims{3, 3})))
	assert.False(t, mat.CompareStructure(a, mat.NewNull(layout.Dims{3, 4})))

	assert.False(t, mat.CompareValues(a, b, eps))
	assert.True(t, mat.CompareValues(a, mat.Flatten(a), 0))
	assert.False(t, mat.CompareValues(a, RandomFull(3, 4, 9), 1e9))

	// a's columns are blocked (2, 1), so is the row blocking of c
	assert.True(t, mat.CompareStructureRowsToColumns(a, c))
	assert.False(t, mat.CompareStructureRowsToColumns(c, a))
	assert.True(t, mat.CompareStructureRowsToColumns(RandomFull(2, 3, 1), RandomFull(3, 2, 2)))
	assert.False(t, mat.CompareStructureRowsToColumns(RandomFull(2, 3, 1), RandomFull(2, 2, 2)))
}

func TestSubmatrixPartitionConvert(t *testing.T) {
	t.Parallel()

	m := mat.NewFromRows(layout.Full, [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})
	sub := mat.Submatrix(m, []int{0, 2}, []int{0, 2}, mat.DefaultTolerance)
	RequireRows(t, [][]float64{{1, 3}, {7, 9}}, sub, 0)
	one := mat.Submatrix(m, []int{1}, []int{1}, mat.DefaultTolerance)
	assert.Equal(t, layout.Diagonal, one.Kind())
	RequirePanicsIs(t, mat.ErrOutOfRange, func() { mat.Submatrix(m, []int{3}, []int{0}, 0) })

	big := RandomFull(5, 4, 1)
	p := mat.Partition(big, layout.Full, []int{2, 3}, []int{1, 3})
	require.True(t, p.IsBlock())
	rows, cols := p.BlockDims()
	assert.Equal(t, []int{2, 3}, rows)
	assert.Equal(t, []int{1, 3}, cols)
	RequireSame(t, big, p, 0)
	RequireSame(t, big, mat.Flatten(p), 0)
	RequirePanicsIs(t, mat.ErrDimensionMismatch, func() { mat.Partition(big, layout.Full, []int{2, 2}, []int{4}) })

	spd := RandomSPD(5, 2)
	ps := mat.Partition(spd, layout.Symmetric, []int{2, 3}, []int{2, 3})
	assert.Equal(t, layout.Symmetric, ps.Kind())
	assert.Equal(t, layout.Symmetric, ps.GetBlock(1, 1).Kind())
	RequireSame(t, spd, ps, 0)

	pd := mat.Partition(spd, layout.Diagonal, []int{2, 3}, []int{2, 3})
	assert.Zero(t, pd.Get(0, 4), "off-diagonal blocks are dropped")

	u := mat.Convert(m, layout.UpperTriangular)
	assert.Equal(t, layout.UpperTriangular, u.Kind())
	RequireRows(t, [][]float64{{1, 2, 3}, {0, 5, 6}, {0, 0, 9}}, u, 0)
	sy := mat.Convert(m, layout.Symmetric)
	RequireRows(t, [][]float64{{1, 2, 3}, {2, 5, 6}, {3, 6, 9}}, sy, 0)
	RequirePanicsIs(t, mat.ErrNonSquare, func() { mat.Convert(RandomFull(2, 3, 1), layout.Diagonal) })

	bd := mat.Convert(p, layout.Null)
	assert.True(t, bd.IsNull())
	assert.Equal(t, layout.Dims{5, 4}, bd.FullDims())
}

func TestDiagCountNorm(t *testing.T) {
	t.Parallel()

	s := mat.NewFromRows(layout.Symmetric, [][]float64{{1, 2}, {2, 3}})
	RequireRows(t, [][]float64{{1, 0}, {0, 3}}, mat.Diag(s), 0)
	RequireRows(t, [][]float64{{1, 0}, {0, math.Sqrt(3)}}, mat.DiagFunc(s, mat.Sqrt), 0)
	RequireRows(t, [][]float64{{1, 0}, {0, 1.0 / 3}}, mat.DiagFunc(s, mat.Inv), 0)
	RequireRows(t, [][]float64{{1, 0}, {0, 1 / math.Sqrt(3)}}, mat.DiagFunc(s, mat.InvSqrt), 0)
	RequirePanicsIs(t, mat.ErrNonSquare, func() { mat.Diag(RandomFull(2, 3, 1)) })

	assert.Equal(t, 3, mat.Count(s))
	assert.Equal(t, 0, mat.Count(mat.NewNull(layout.Dims{4, 4})))
	assert.InDelta(t, 8.0, mat.PNorm(s, 1), 1e-15)
	assert.InDelta(t, math.Sqrt(18), mat.PNorm(s, 2), 1e-15)
	assert.Equal(t, 3.0, mat.PNorm(s, 0))

	x := RandomFull(2, 3, 2)
	g := mat.Reduce(Grid(t, layout.Full, []int{2, 3}, []int{2, 3}, RandomSPD(2, 3), x, mat.Transpose(x), RandomSPD(3, 4)), mat.DefaultTolerance)
	assert.InDelta(t, mat.PNorm(mat.Flatten(g), 2), mat.PNorm(g, 2), 1e-12)
	assert.InDelta(t, mat.PNorm(mat.Flatten(g), 1), mat.PNorm(g, 1), 1e-12)
	RequireSame(t, mat.Diag(mat.Flatten(g)), mat.Diag(g), 0)
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	rows := [][]float64{{1, 2}, {2, 5}}
	full := mat.NewFromRows(layout.Full, rows)
	sym := mat.NewFromRows(layout.Symmetric, rows)
	assert.Equal(t, mat.Fingerprint(full), mat.Fingerprint(sym))
	assert.Equal(t, mat.Fingerprint(sym), mat.Fingerprint(mat.FastTranspose(sym)))
	assert.Equal(t, mat.Fingerprint(full), mat.Fingerprint(mat.Partition(full, layout.Full, []int{1, 1}, []int{1, 1})))

	other := full.Clone()
	other.Set(0, 1, 3)
	assert.NotEqual(t, mat.Fingerprint(full), mat.Fingerprint(other))
	assert.NotEqual(t,
		mat.Fingerprint(mat.NewNull(layout.Dims{2, 3})),
		mat.Fingerprint(mat.NewNull(layout.Dims{3, 2})))
}

func TestFill(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	value := func(_ context.Context, r, c int) (float64, float64, error) {
		return float64(10*r + c), 0.1 * float64(r), nil
	}

	full := mat.New(layout.Full, layout.Dims{3, 3}, false)
	worst, err := mat.Fill(ctx, full, value)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, worst, 1e-15)
	RequireRows(t, [][]float64{{0, 1, 2}, {10, 11, 12}, {20, 21, 22}}, full, 0)

	// only stored entries are requested
	var calls atomic.Int32
	counting := func(ctx context.Context, r, c int) (float64, float64, error) {
		calls.Add(1)
		return value(ctx, r, c)
	}
	sym := mat.New(layout.Symmetric, layout.Dims{4, 4}, false)
	_, err = mat.Fill(ctx, sym, counting)
	require.NoError(t, err)
	assert.EqualValues(t, 10, calls.Load())
	assert.Equal(t, 12.0, sym.Get(2, 1), "mirrored entry reads the stored upper value")

	// locations are effective, through blocks and transposition
	b := mat.FastTranspose(Grid(t, layout.Full, []int{1, 2}, []int{2, 1},
		mat.New(layout.Full, layout.Dims{1, 2}, false), mat.New(layout.Full, layout.Dims{1, 1}, false),
		mat.New(layout.Full, layout.Dims{2, 2}, false), nil))
	_, err = mat.Fill(ctx, b, value, mat.WithWorkers(4))
	require.NoError(t, err)
	d := b.FullDims()
	for i := 0; i < d[0]; i++ {
		for j := 0; j < d[1]; j++ {
			if i == 2 && j > 0 {
				assert.Zero(t, b.Get(i, j), "empty cell stays empty")
				continue
			}
			assert.Equal(t, float64(10*i+j), b.Get(i, j), "(%d,%d)", i, j)
		}
	}

	boom := errors.New("provider down")
	_, err = mat.Fill(ctx, mat.New(layout.Full, layout.Dims{2, 2}, false), func(context.Context, int, int) (float64, float64, error) {
		return 0, 0, boom
	})
	require.ErrorIs(t, err, boom)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = mat.Fill(cancelled, mat.New(layout.Full, layout.Dims{2, 2}, false), value)
	require.ErrorIs(t, err, context.Canceled)
}

func TestOptions_Validation(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { mat.WithTolerance(-1) })
	assert.Panics(t, func() { mat.WithTolerance(math.NaN()) })
	assert.Panics(t, func() { mat.WithWorkers(-1) })
	assert.Panics(t, func() { mat.WithSolver(nil) })

	o := mat.NewOptions()
	assert.Equal(t, mat.DefaultTolerance, o.Tolerance())
	assert.True(t, o.Reduces())
	assert.NotNil(t, o.Logger())

	o = mat.NewOptions(mat.WithTolerance(1e-6), mat.WithoutReduce(), mat.WithLogger(nil))
	assert.Equal(t, 1e-6, o.Tolerance())
	assert.False(t, o.Reduces())
	assert.NotNil(t, o.Logger())
}

func TestCollection(t *testing.T) {
	t.Parallel()

	c := mat.NewCollection()
	a := RandomFull(2, 2, 1)
	a.SetLabel("a")
	assert.Equal(t, 0, c.Append(a))
	e := c.AppendEmpty(layout.Symmetric, layout.Dims{3, 3}, false, "cov")
	assert.Equal(t, layout.Symmetric, e.Kind())
	assert.Equal(t, 2, c.Len())

	got, ok := c.ByLabel("cov")
	require.True(t, ok)
	assert.Same(t, e, got)
	_, ok = c.ByLabel("missing")
	assert.False(t, ok)
	assert.Equal(t, -1, c.Index("missing"))

	d := mat.NewCollection(mat.NewIdentity(2))
	c.Concat(d, nil)
	assert.Equal(t, []string{"a", "cov", ""}, c.Labels())

	c.Set(2, RandomFull(1, 1, 2))
	var seen []int
	for i, m := range c.All() {
		require.NotNil(t, m)
		seen = append(seen, i)
	}
	assert.Equal(t, []int{0, 1, 2}, seen)
	RequirePanicsIs(t, mat.ErrOutOfRange, func() { c.At(3) })
}
