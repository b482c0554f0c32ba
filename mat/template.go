// SPDX-License-Identifier: MIT

// Package mat - shape templates.
//
// A template is a zero-valued matrix with the nesting, grid kinds and block
// dims of its source. Templates are the allocation step of every kernel that
// fills a result cell by cell.
//
// Rules:
//   - forced kind applies to the first depthLimit levels (0 = all levels),
//     deeper levels become Full; nil forced keeps the source kinds.
//   - a square kind that does not fit the dims degrades to Full.
//   - Null sources stay Null unless a kind is forced.
//   - empty cells become Null placeholders carrying the known block dims.

package mat

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/katalvlaran/bmat/layout"
)

// Template returns an empty matrix shaped like m.
func Template(m *Matrix, forced *layout.Kind, depthLimit int) *Matrix {
	if m == nil {
		return nil
	}
	if depthLimit < 0 {
		violation(opTemplate, ErrBadShape, "negative depth limit %d", depthLimit)
	}

	return template(m, forced, depthLimit, 0)
}

func template(m *Matrix, forced *layout.Kind, limit, level int) *Matrix {
	k := m.Kind()
	if forced != nil {
		if limit == 0 || level < limit {
			k = *forced
		} else {
			k = layout.Full
		}
	} else if m.IsNull() {
		return labeled(NewNull(m.FullDims()), m.label)
	}

	if m.blk == nil {
		d := m.Dims()
		if k.Square() && !d.Square() {
			k = layout.Full
		}
		return labeled(New(k, d, false), m.label)
	}

	if k == layout.Null {
		return labeled(NewNull(m.FullDims()), m.label)
	}
	g := m.Dims()
	rows, cols := m.BlockDims()
	if (k.Square() && !g.Square()) || (k.Category() == 1 && !equalInts(rows, cols)) {
		k = layout.Full
	}
	out := NewBlock(k, rows, cols)
	k.Each(g, func(off, i, j int) {
		sub, ref := m.cell(i, j)
		if ref == refEmpty {
			out.blk.cells[off] = NewNull(sub.FullDims())
			return
		}
		out.blk.cells[off] = template(sub, forced, limit, level+1)
	})
	out.claimAll()

	return labeled(out, m.label)
}

func labeled(m *Matrix, label string) *Matrix {
	m.label = label
	return m
}

// TemplateOfSet returns the union template of several matrices with equal
// FullDims. Positions where the inputs disagree in nesting degrade to a Full
// leaf; kinds are joined (UT with LT gives Full, Diagonal with Symmetric gives
// Symmetric). forced and depthLimit are applied to the union as in Template.
func TemplateOfSet(forced *layout.Kind, depthLimit int, ms ...*Matrix) *Matrix {
	var acc *Matrix
	for _, m := range ms {
		if m == nil {
			continue
		}
		if acc == nil {
			acc = Template(m, nil, 0)
			continue
		}
		acc = unionShape(acc, m)
	}
	if acc == nil || forced == nil {
		return acc
	}

	return Template(acc, forced, depthLimit)
}

// unionShape joins the shape of template a with the shape of b.
func unionShape(a, b *Matrix) *Matrix {
	d := a.FullDims()
	if d != b.FullDims() {
		violation(opTemplate, ErrDimensionMismatch, "%s vs %s", d, b.FullDims())
	}
	switch {
	case b.IsNull():
		return Template(a, nil, 0)
	case a.IsNull():
		return Template(b, nil, 0)
	case !a.IsBlock() && !b.IsBlock():
		return New(joinKind(a.Kind(), b.Kind()), d, false)
	case sameBlocking(a, b):
		ra, ca := a.BlockDims()
		rb, cb := b.BlockDims()
		rows, cols := mergeDims(ra, rb), mergeDims(ca, cb)
		k := joinKind(a.Kind(), b.Kind())
		if k.Category() == 1 && !equalInts(rows, cols) {
			k = layout.Full
		}
		out := NewBlock(k, rows, cols)
		k.Each(out.Dims(), func(off, i, j int) {
			x, rx := a.cell(i, j)
			y, ry := b.cell(i, j)
			if rx == refEmpty && ry == refEmpty {
				return
			}
			out.blk.cells[off] = unionShape(x, y)
		})
		out.claimAll()
		return out
	default:
		return New(layout.Full, d, false)
	}
}

// TemplateProduct returns the empty shape of a·b: leaf kinds combine as in
// Multiply, conformable blocks combine grid-wise and only inner positions
// occupied on both sides contribute to a result cell.
func TemplateProduct(a, b *Matrix) *Matrix {
	da, db := a.FullDims(), b.FullDims()
	if da[1] != db[0] {
		violation(opTemplate, ErrDimensionMismatch, "%s · %s", da, db)
	}
	rd := layout.Dims{da[0], db[1]}
	switch {
	case a.IsNull() || b.IsNull():
		return NewNull(rd)
	case !a.IsBlock() && !b.IsBlock():
		return New(productKind(a.Kind(), b.Kind()), rd, false)
	case conformable(a, b):
		ar, _ := a.BlockDims()
		_, bc := b.BlockDims()
		k := productKind(a.Kind(), b.Kind())
		out := NewBlock(k, ar, bc)
		rowOcc, colOcc := occupancy(a, b)
		k.Each(out.Dims(), func(off, i, j int) {
			ks := roaring.And(rowOcc[i], colOcc[j])
			var acc *Matrix
			it := ks.Iterator()
			for it.HasNext() {
				kk := int(it.Next())
				t := TemplateProduct(a.GetBlock(i, kk), b.GetBlock(kk, j))
				if acc == nil {
					acc = t
				} else {
					acc = unionShape(acc, t)
				}
			}
			out.blk.cells[off] = acc
		})
		out.claimAll()
		return out
	default:
		return New(layout.Full, rd, false)
	}
}
