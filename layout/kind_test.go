// SPDX-License-Identifier: MIT
package layout_test

import (
	"fmt"
	"testing"

	"github.com/katalvlaran/bmat/layout"
	"github.com/stretchr/testify/require"
)

// grid is a tiny Entries implementation over [][]float64.
type grid struct {
	kind layout.Kind
	v    [][]float64
}

func (g grid) Kind() layout.Kind       { return g.kind }
func (g grid) At(row, col int) float64 { return g.v[row][col] }

func TestKind_ParseRoundTrip(t *testing.T) {
	t.Parallel()

	for _, k := range layout.Kinds {
		got, err := layout.ParseKind(k.String())
		require.NoError(t, err)
		require.Equal(t, k, got)
	}
	got, err := layout.ParseKind("  UT ")
	require.NoError(t, err)
	require.Equal(t, layout.UpperTriangular, got)

	_, err = layout.ParseKind("csr")
	require.ErrorIs(t, err, layout.ErrUnknownKind)
}

func TestKind_Size(t *testing.T) {
	t.Parallel()

	d := layout.Dims{4, 4}
	require.Equal(t, 0, layout.Null.Size(d))
	require.Equal(t, 16, layout.Full.Size(d))
	require.Equal(t, 4, layout.Diagonal.Size(d))
	require.Equal(t, 10, layout.Symmetric.Size(d))
	require.Equal(t, 10, layout.UpperTriangular.Size(d))
	require.Equal(t, 10, layout.LowerTriangular.Size(d))
	require.Equal(t, 6, layout.Full.Size(layout.Dims{2, 3}))
}

// TestKind_LocateInvertsIndex walks every stored location of every kind and
// checks that Locate(Index(r,c)) == (r,c) and that offsets are dense 0..Size-1.
func TestKind_LocateInvertsIndex(t *testing.T) {
	t.Parallel()

	for _, k := range layout.Kinds {
		for _, n := range []int{1, 2, 5} {
			d := layout.Dims{n, n}
			if k == layout.Full {
				d = layout.Dims{n, n + 2}
			}
			t.Run(fmt.Sprintf("%s/%d", k, n), func(t *testing.T) {
				seen := make(map[int]bool)
				for r := 0; r < d[0]; r++ {
					for c := 0; c < d[1]; c++ {
						off, ok := k.Index(d, r, c)
						if !ok {
							continue
						}
						require.False(t, seen[off], "offset %d reused", off)
						seen[off] = true
						gr, gc := k.Locate(d, off)
						require.Equal(t, r, gr)
						require.Equal(t, c, gc)
					}
				}
				require.Len(t, seen, k.Size(d))
			})
		}
	}
}

func TestKind_PackedOffsets(t *testing.T) {
	t.Parallel()

	d := layout.Dims{3, 3}
	// upper: (0,0)(0,1)(0,2)(1,1)(1,2)(2,2)
	off, ok := layout.UpperTriangular.Index(d, 1, 2)
	require.True(t, ok)
	require.Equal(t, 4, off)
	// lower: (0,0)(1,0)(1,1)(2,0)(2,1)(2,2)
	off, ok = layout.LowerTriangular.Index(d, 2, 1)
	require.True(t, ok)
	require.Equal(t, 4, off)

	_, ok = layout.Symmetric.Index(d, 2, 0)
	require.False(t, ok)
	_, ok = layout.Diagonal.Index(d, 0, 1)
	require.False(t, ok)
	_, ok = layout.Null.Index(d, 0, 0)
	require.False(t, ok)
}

func TestKind_OutOfRangePanics(t *testing.T) {
	t.Parallel()

	d := layout.Dims{2, 2}
	require.Panics(t, func() { layout.Full.Index(d, 2, 0) })
	require.Panics(t, func() { layout.Full.Index(d, 0, -1) })
	require.Panics(t, func() { layout.Diagonal.Locate(d, 2) })
	require.Panics(t, func() { layout.Null.Locate(d, 0) })
	require.Panics(t, func() { layout.Full.RowBounds(d, 3) })
}

func TestKind_Bounds(t *testing.T) {
	t.Parallel()

	d := layout.Dims{4, 4}
	cases := []struct {
		kind     layout.Kind
		rLo, rHi int // RowBounds(col=2)
		cLo, cHi int // ColBounds(row=2)
	}{
		{layout.Null, 0, 0, 0, 0},
		{layout.Full, 0, 4, 0, 4},
		{layout.Diagonal, 2, 3, 2, 3},
		{layout.Symmetric, 0, 4, 0, 4},
		{layout.UpperTriangular, 0, 3, 2, 4},
		{layout.LowerTriangular, 2, 4, 0, 3},
	}
	for _, tc := range cases {
		lo, hi := tc.kind.RowBounds(d, 2)
		require.Equal(t, [2]int{tc.rLo, tc.rHi}, [2]int{lo, hi}, "RowBounds %s", tc.kind)
		lo, hi = tc.kind.ColBounds(d, 2)
		require.Equal(t, [2]int{tc.cLo, tc.cHi}, [2]int{lo, hi}, "ColBounds %s", tc.kind)
	}
}

func TestKind_CouldOmit(t *testing.T) {
	t.Parallel()

	d := layout.Dims{2, 2}
	sym := grid{kind: layout.Full, v: [][]float64{{1, 2}, {2 + 1e-12, 3}}}
	upper := grid{kind: layout.Full, v: [][]float64{{1, 2}, {0, 3}}}

	at := func(r, c int) *layout.Loc { return &layout.Loc{Row: r, Col: c} }

	require.True(t, layout.Symmetric.CouldOmit(sym, d, at(1, 0), 1e-9))
	require.False(t, layout.Symmetric.CouldOmit(upper, d, at(1, 0), 1e-9))
	require.True(t, layout.UpperTriangular.CouldOmit(upper, d, at(1, 0), 0))
	require.False(t, layout.LowerTriangular.CouldOmit(upper, d, at(0, 1), 0))
	// stored locations are always fine
	require.True(t, layout.Diagonal.CouldOmit(upper, d, at(1, 1), 0))
	// square kinds never hold non-square dims
	require.False(t, layout.Diagonal.CouldOmit(upper, layout.Dims{2, 1}, at(0, 0), 0))

	// nil location: structural short-circuit
	diag := grid{kind: layout.Diagonal}
	require.True(t, layout.Symmetric.CouldOmit(diag, d, nil, 0))
	require.True(t, layout.UpperTriangular.CouldOmit(diag, d, nil, 0))
	require.False(t, layout.Diagonal.CouldOmit(grid{kind: layout.Symmetric}, d, nil, 0))
	require.True(t, layout.Full.CouldOmit(grid{kind: layout.LowerTriangular}, d, nil, 0))
	require.True(t, layout.Diagonal.CouldOmit(grid{kind: layout.Null}, d, nil, 0))
}

func TestKind_TransposedAndSquare(t *testing.T) {
	t.Parallel()

	require.Equal(t, layout.LowerTriangular, layout.UpperTriangular.Transposed())
	require.Equal(t, layout.UpperTriangular, layout.LowerTriangular.Transposed())
	require.Equal(t, layout.Symmetric, layout.Symmetric.Transposed())
	require.False(t, layout.Full.Square())
	require.False(t, layout.Null.Square())
	require.True(t, layout.Diagonal.Square())
	require.Equal(t, 1, layout.Symmetric.Category())
	require.Equal(t, 0, layout.LowerTriangular.Category())
}

func TestKind_EachMatchesIndex(t *testing.T) {
	t.Parallel()

	for _, k := range layout.Kinds {
		d := layout.Dims{4, 4}
		next := 0
		k.Each(d, func(off, row, col int) {
			require.Equal(t, next, off)
			got, ok := k.Index(d, row, col)
			require.True(t, ok)
			require.Equal(t, off, got)
			next++
		})
		require.Equal(t, k.Size(d), next, "kind %s", k)
	}
}
