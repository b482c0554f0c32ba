// SPDX-License-Identifier: MIT

// Package mat - filling a template from an external value provider.
//
// Fill walks the stored entries of every owned leaf (mirrored cells and
// omitted entries are skipped, Null leaves hold nothing), maps each to its
// effective location in the outer matrix and asks the provider for a value.
// Calls run through internal/parallel.ForErr; every target slot is written
// by exactly one call.

package mat

import (
	"context"

	"github.com/katalvlaran/bmat/internal/parallel"
)

// Provider returns the value and an error estimate for the element at
// (row, col) of the matrix being filled.
type Provider func(ctx context.Context, row, col int) (value, errEst float64, err error)

type fillTarget struct {
	slot     *float64
	row, col int
}

// Fill overwrites every stored entry of m with values from p and returns the
// largest error estimate reported. The first provider error (or ctx
// cancellation) aborts the fill; entries already written keep their values.
func Fill(ctx context.Context, m *Matrix, p Provider, opts ...Option) (float64, error) {
	if m == nil || p == nil {
		return 0, nil
	}
	o := gatherOptions(opts...)
	var targets []fillTarget
	collect(m, func(r, c int) (int, int) { return r, c }, &targets)
	o.logger.Debug("fill", "matrix", m.String(), "entries", len(targets))

	errs := make([]float64, len(targets))
	err := parallel.ForErr(ctx, len(targets), func(ctx context.Context, i int) error {
		t := targets[i]
		v, e, err := p(ctx, t.row, t.col)
		if err != nil {
			return err
		}
		*t.slot = v
		errs[i] = e
		return nil
	}, o.par())
	if err != nil {
		return 0, matErrorf(opFill, err)
	}
	worst := 0.0
	for _, e := range errs {
		worst = max(worst, e)
	}

	return worst, nil
}

// collect appends the stored slots of m; place maps m's effective local
// coordinates to the outer matrix.
func collect(m *Matrix, place func(r, c int) (int, int), out *[]fillTarget) {
	if m.IsNull() {
		return
	}
	if m.blk == nil {
		m.kind.Each(m.dims, func(off, rr, rc int) {
			r, c := place(m.trafos.Location(rr, rc))
			*out = append(*out, fillTarget{slot: &m.data[off], row: r, col: c})
		})
		return
	}
	ro, co := offsets(m.blk.rdim), offsets(m.blk.cdim)
	m.kind.Each(m.dims, func(off, ri, rj int) {
		sub := m.blk.cells[off]
		if sub == nil {
			return
		}
		r0, c0 := ro[ri], co[rj]
		collect(sub, func(x, y int) (int, int) {
			return place(m.trafos.Location(r0+x, c0+y))
		}, out)
	})
}
