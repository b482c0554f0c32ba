// SPDX-License-Identifier: MIT

// Package mat - multiplication.
//
// Dispatch (mul):
//   - Null operand or zero scale  -> Null leaf of the product dims;
//   - Diagonal leaf on either side -> row / column scaling of the other
//     operand, recursing into its blocks;
//   - two leaves                  -> productKind result, each entry summed only
//     over the inner range where both operands can be non-zero
//     (ColBounds of the left row ∩ RowBounds of the right column);
//   - conformable blocks          -> grid product; roaring bitmaps of the
//     non-Null cells per block row of a and block column of b select the inner
//     indices that contribute, cells are computed in parallel;
//   - anything else               -> densify both operands.
//
// Complexity:
//   - Full·Full leaves: O(m·n·k); triangular and diagonal operands skip the
//     structural zeros.

package mat

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/katalvlaran/bmat/dense"
	"github.com/katalvlaran/bmat/internal/parallel"
	"github.com/katalvlaran/bmat/layout"
)

// Multiply returns a·b.
// Panics with ErrDimensionMismatch unless a's columns equal b's rows.
func Multiply(a, b *Matrix, opts ...Option) *Matrix {
	return MultiplyScaled(a, b, 1, opts...)
}

// MultiplyScaled returns value·a·b.
func MultiplyScaled(a, b *Matrix, value float64, opts ...Option) *Matrix {
	o := gatherOptions(opts...)

	return o.finish(mul(a, b, value, o))
}

// MultiplyTo combines value·a·b into dst according to job and returns dst.
// dst must have the product dims; it keeps its label.
func MultiplyTo(job Job, a, b, dst *Matrix, value float64, opts ...Option) *Matrix {
	o := gatherOptions(opts...)

	return combineInto(job, dst, mul(a, b, value, o), o)
}

func mul(a, b *Matrix, value float64, o Options) *Matrix {
	da, db := a.FullDims(), b.FullDims()
	if da[1] != db[0] {
		violation(opMultiply, ErrDimensionMismatch, "%s · %s", da, db)
	}
	rd := layout.Dims{da[0], db[1]}
	switch {
	case a.IsNull() || b.IsNull() || value == 0:
		return NewNull(rd)
	case !a.IsBlock() && a.Kind() == layout.Diagonal:
		return scaleRows(scaled(a.Payload(), value), b, o)
	case !b.IsBlock() && b.Kind() == layout.Diagonal:
		return scaleCols(a, scaled(b.Payload(), value), o)
	case !a.IsBlock() && !b.IsBlock():
		return mulLeaf(viewOf(a), viewOf(b), value, o)
	case conformable(a, b):
		return mulBlock(a, b, value, o)
	default:
		o.logger.Debug("multiply densifies", "a", a.String(), "b", b.String())
		return mulLeaf(viewOf(densify(a)), viewOf(densify(b)), value, o)
	}
}

func scaled(d []float64, value float64) []float64 {
	out := make([]float64, len(d))
	for i, x := range d {
		out[i] = x * value
	}

	return out
}

// conformable reports whether a and b are blocks whose inner partitions agree.
func conformable(a, b *Matrix) bool {
	if !a.IsBlock() || !b.IsBlock() || a.Dims()[1] != b.Dims()[0] {
		return false
	}
	_, ac := a.BlockDims()
	br, _ := b.BlockDims()

	return compatibleDims(ac, br)
}

// occupancy returns, per block row of a and per block column of b, the set
// of inner grid indices whose cells are not Null.
func occupancy(a, b *Matrix) (rowOcc, colOcc []*roaring.Bitmap) {
	ga, gb := a.Dims(), b.Dims()
	rowOcc = make([]*roaring.Bitmap, ga[0])
	for i := range rowOcc {
		bm := roaring.New()
		for k := 0; k < ga[1]; k++ {
			if sub, _ := a.cell(i, k); !sub.IsNull() {
				bm.Add(uint32(k))
			}
		}
		rowOcc[i] = bm
	}
	colOcc = make([]*roaring.Bitmap, gb[1])
	for j := range colOcc {
		bm := roaring.New()
		for k := 0; k < gb[0]; k++ {
			if sub, _ := b.cell(k, j); !sub.IsNull() {
				bm.Add(uint32(k))
			}
		}
		colOcc[j] = bm
	}

	return rowOcc, colOcc
}

// scaleRows returns diag(d)·b.
func scaleRows(d []float64, b *Matrix, o Options) *Matrix {
	if b.IsNull() {
		return NewNull(b.FullDims())
	}
	if !b.IsBlock() {
		vb := viewOf(b)
		k := productKind(layout.Diagonal, vb.kind)
		out := New(k, vb.dims, false)
		k.Each(vb.dims, func(off, r, c int) { out.data[off] = d[r] * vb.at(r, c) })
		return out
	}
	rows, cols := b.BlockDims()
	if !knownDims(rows) {
		return scaleRows(d, densify(b), o)
	}
	ro := offsets(rows)
	k := productKind(layout.Diagonal, b.Kind())
	out := NewBlock(k, rows, cols)
	slots := stored(k, out.Dims())
	parallel.For(len(slots), func(s int) {
		i, j := slots[s].i, slots[s].j
		sub, ref := b.cell(i, j)
		if ref == refEmpty {
			return
		}
		out.blk.cells[slots[s].off] = scaleRows(d[ro[i]:ro[i+1]], sub, o)
	}, o.par())
	out.claimAll()

	return out
}

// scaleCols returns a·diag(d).
func scaleCols(a *Matrix, d []float64, o Options) *Matrix {
	if a.IsNull() {
		return NewNull(a.FullDims())
	}
	if !a.IsBlock() {
		va := viewOf(a)
		k := productKind(va.kind, layout.Diagonal)
		out := New(k, va.dims, false)
		k.Each(va.dims, func(off, r, c int) { out.data[off] = va.at(r, c) * d[c] })
		return out
	}
	rows, cols := a.BlockDims()
	if !knownDims(cols) {
		return scaleCols(densify(a), d, o)
	}
	co := offsets(cols)
	k := productKind(a.Kind(), layout.Diagonal)
	out := NewBlock(k, rows, cols)
	slots := stored(k, out.Dims())
	parallel.For(len(slots), func(s int) {
		i, j := slots[s].i, slots[s].j
		sub, ref := a.cell(i, j)
		if ref == refEmpty {
			return
		}
		out.blk.cells[slots[s].off] = scaleCols(sub, d[co[j]:co[j+1]], o)
	}, o.par())
	out.claimAll()

	return out
}

// mulLeaf multiplies two leaf views, skipping structural zeros.
func mulLeaf(va, vb leafView, value float64, o Options) *Matrix {
	rd := layout.Dims{va.dims[0], vb.dims[1]}
	k := productKind(va.kind, vb.kind)
	if rd[0] == 0 || rd[1] == 0 || va.dims[1] == 0 {
		return New(k, rd, false)
	}
	if va.kind == layout.Full && vb.kind == layout.Full {
		x, _ := dense.NewDenseFrom(va.dims[0], va.dims[1], va.data)
		y, _ := dense.NewDenseFrom(vb.dims[0], vb.dims[1], vb.data)
		p, err := dense.Mul(x, y)
		if err != nil {
			violation(opMultiply, ErrDimensionMismatch, "%v", err)
		}
		out := fromDense(p)
		if value != 1 {
			ScaleBy(out, value)
		}
		return out
	}

	out := New(k, rd, false)
	parallel.For(rd[0], func(r int) {
		alo, ahi := va.kind.ColBounds(va.dims, r)
		lo, hi := k.ColBounds(rd, r)
		for c := lo; c < hi; c++ {
			off, ok := k.Index(rd, r, c)
			if !ok {
				continue
			}
			blo, bhi := vb.kind.RowBounds(vb.dims, c)
			s := 0.0
			for kk := max(alo, blo); kk < min(ahi, bhi); kk++ {
				s += va.at(r, kk) * vb.at(kk, c)
			}
			out.data[off] = value * s
		}
	}, o.par())

	return out
}

// mulBlock multiplies conformable blocks cell by cell.
func mulBlock(a, b *Matrix, value float64, o Options) *Matrix {
	ar, _ := a.BlockDims()
	_, bc := b.BlockDims()
	k := productKind(a.Kind(), b.Kind())
	out := NewBlock(k, ar, bc)
	rowOcc, colOcc := occupancy(a, b)
	slots := stored(k, out.Dims())
	parallel.For(len(slots), func(s int) {
		i, j := slots[s].i, slots[s].j
		ks := roaring.And(rowOcc[i], colOcc[j])
		if ks.IsEmpty() {
			return
		}
		var acc *Matrix
		it := ks.Iterator()
		for it.HasNext() {
			kk := int(it.Next())
			x, _ := a.cell(i, kk)
			y, _ := b.cell(kk, j)
			p := mul(x, y, value, o)
			if acc == nil {
				acc = p
			} else {
				acc = addScaled(acc, p, 1, o)
			}
		}
		out.blk.cells[slots[s].off] = acc
	}, o.par())
	out.claimAll()

	return out
}
