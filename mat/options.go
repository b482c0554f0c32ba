// SPDX-License-Identifier: MIT

// Package mat: functional configuration for every operation.
// This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherOptions helper (internal).
//
// Notes:
//   - Reduction is on by default: every operation returns its result in
//     reduced form. WithoutReduce keeps raw kinds (useful for chained kernels
//     that reduce once at the end).
//   - The tolerance is relative: reduction compares against
//     tol·Σ|v|/count of the matrix being reduced.

package mat

import (
	"log/slog"
	"math"

	"github.com/katalvlaran/bmat/internal/parallel"
	"github.com/katalvlaran/bmat/solver"
)

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultTolerance is the relative tolerance used by structural reduction.
	DefaultTolerance = 1e-12

	// DefaultReduce toggles reduction of every result.
	DefaultReduce = true

	// DefaultWorkers = 0 means "use GOMAXPROCS".
	DefaultWorkers = 0
)

const (
	panicToleranceInvalid = "mat: WithTolerance: tol must be finite, non-negative"
	panicWorkersInvalid   = "mat: WithWorkers: workers must be >= 0"
	panicSolverNil        = "mat: WithSolver: solver must not be nil"
)

// Option mutates internal options. Safe to apply repeatedly.
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
type Options struct {
	tol     float64
	reduce  bool
	solver  DenseSolver
	logger  *slog.Logger
	workers int
}

// WithTolerance sets the relative reduction tolerance.
// Panics when tol is negative, NaN or infinite.
func WithTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol < 0 {
		panic(panicToleranceInvalid)
	}

	return func(o *Options) { o.tol = tol }
}

// WithoutReduce disables reduction of results.
func WithoutReduce() Option {
	return func(o *Options) { o.reduce = false }
}

// WithSolver injects the dense backend used by Eigen and InvertDirect.
func WithSolver(s DenseSolver) Option {
	if s == nil {
		panic(panicSolverNil)
	}

	return func(o *Options) { o.solver = s }
}

// WithLogger routes debug/warn diagnostics to l. nil restores the no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithWorkers bounds the goroutines used by parallel loops; 1 runs everything
// on the calling goroutine and 0 selects GOMAXPROCS.
func WithWorkers(workers int) Option {
	if workers < 0 {
		panic(panicWorkersInvalid)
	}

	return func(o *Options) { o.workers = workers }
}

// NewOptions resolves option setters against the documented defaults.
func NewOptions(opts ...Option) Options {
	return gatherOptions(opts...)
}

// Tolerance returns the effective relative tolerance.
func (o Options) Tolerance() float64 { return o.tol }

// Reduces reports whether results are reduced.
func (o Options) Reduces() bool { return o.reduce }

// Logger returns the effective logger.
func (o Options) Logger() *slog.Logger { return o.logger }

func gatherOptions(user ...Option) Options {
	o := Options{
		tol:     DefaultTolerance,
		reduce:  DefaultReduce,
		solver:  solver.Gonum{},
		logger:  NoopLogger(),
		workers: DefaultWorkers,
	}
	for _, set := range user {
		set(&o)
	}

	return o
}

// par returns the parallel loop configuration.
func (o Options) par() parallel.Config {
	if o.workers == 0 {
		return parallel.DefaultConfig()
	}

	return parallel.Workers(o.workers)
}

// finish reduces m when reduction is enabled.
func (o Options) finish(m *Matrix) *Matrix {
	if !o.reduce || m == nil {
		return m
	}

	return reduce(m, o)
}

// raw returns a copy of the option list that also disables reduction,
// for internal calls whose result is reduced once by the caller.
func raw(opts []Option) []Option {
	out := make([]Option, 0, len(opts)+1)
	out = append(out, opts...)

	return append(out, WithoutReduce())
}
