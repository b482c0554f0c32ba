// SPDX-License-Identifier: MIT

package mat

import (
	"math"

	"github.com/katalvlaran/bmat/layout"
)

// Element-wise functions for DiagFunc.
var (
	Sqrt    = math.Sqrt
	Inv     = func(x float64) float64 { return 1 / x }
	InvSqrt = func(x float64) float64 { return 1 / math.Sqrt(x) }
)

// Diag returns the main diagonal of a square matrix as a Diagonal leaf.
// Panics with ErrNonSquare otherwise.
func Diag(m *Matrix, opts ...Option) *Matrix {
	return DiagFunc(m, nil, opts...)
}

// DiagFunc returns diag(f(m[0,0]), …, f(m[n-1,n-1])) as a Diagonal leaf;
// nil f is the identity.
func DiagFunc(m *Matrix, f func(float64) float64, opts ...Option) *Matrix {
	d := m.FullDims()
	if !d.Square() {
		violation(opDiag, ErrNonSquare, "%s", d)
	}
	out := New(layout.Diagonal, d, false)
	diagonal(m, out.data, 0)
	if f != nil {
		for i, x := range out.data {
			out.data[i] = f(x)
		}
	}
	o := gatherOptions(opts...)

	return o.finish(out)
}

// diagonal writes the main diagonal of square m into dst starting at at.
func diagonal(m *Matrix, dst []float64, at int) {
	if m.IsNull() {
		return
	}
	if !m.IsBlock() {
		v := viewOf(m)
		for i := 0; i < v.dims[0]; i++ {
			dst[at+i] = v.at(i, i)
		}
		return
	}
	rows, cols := m.BlockDims()
	if !equalInts(rows, cols) {
		// the diagonal crosses cells; fall back to element access
		n := m.FullDims()[0]
		for i := 0; i < n; i++ {
			dst[at+i] = m.Get(i, i)
		}
		return
	}
	ro := offsets(rows)
	for i := range rows {
		sub, ref := m.cell(i, i)
		if ref != refEmpty {
			diagonal(sub, dst, at+ro[i])
		}
	}
}

// Count returns the number of stored values of m (omitted entries, mirrored
// cells and Null leaves do not count).
func Count(m *Matrix) int {
	_, n := sumAbs(m)
	return n
}

// PNorm returns the entry-wise p-norm of the logical matrix, (Σ|v|^p)^(1/p);
// p == 0 selects the max norm. Mirrored entries of Symmetric storage count
// twice. Panics when p is negative or NaN.
func PNorm(m *Matrix, p float64) float64 {
	if p < 0 || math.IsNaN(p) {
		panic(matErrorf("PNorm", ErrOutOfRange))
	}
	if p == 0 {
		return maxAbs(m)
	}
	s := powSum(m, p)

	return math.Pow(s, 1/p)
}

func maxAbs(m *Matrix) float64 {
	if m.IsNull() {
		return 0
	}
	out := 0.0
	if m.blk == nil {
		for _, x := range m.data {
			out = max(out, math.Abs(x))
		}
		return out
	}
	for _, c := range m.blk.cells {
		out = max(out, maxAbs(c))
	}

	return out
}

// powSum returns Σ|v|^p over the logical entries of m.
func powSum(m *Matrix, p float64) float64 {
	if m.IsNull() {
		return 0
	}
	s := 0.0
	twice := m.kind.Category() == 1
	m.kind.Each(m.dims, func(off, r, c int) {
		w := 1.0
		if twice && r != c {
			w = 2
		}
		if m.blk == nil {
			s += w * math.Pow(math.Abs(m.data[off]), p)
		} else {
			s += w * powSum(m.blk.cells[off], p)
		}
	})

	return s
}
