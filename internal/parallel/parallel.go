// SPDX-License-Identifier: MIT

// Package parallel provides the fork-join loop used by every data-parallel
// kernel of the engine.
//
// Every iteration index is handed to exactly one goroutine, so kernels that
// write output location i only from iteration i need no locking. A panic
// raised inside an iteration is captured and re-raised on the calling
// goroutine once all workers have stopped, which keeps structural-violation
// panics recoverable by the caller.
package parallel

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Upper bound on concurrently running goroutines.
	MinChunkSize int  // Minimum iterations per goroutine to amortize scheduling.
}

// DefaultMinChunkSize is the default minimum number of iterations per goroutine.
const DefaultMinChunkSize = 16

// DefaultConfig returns defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.GOMAXPROCS(0)
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: DefaultMinChunkSize,
	}
}

// Sequential returns a Config that runs every loop on the calling goroutine.
func Sequential() Config {
	return Config{NumWorkers: 1, MinChunkSize: DefaultMinChunkSize}
}

// Workers returns DefaultConfig with the worker count overridden.
// workers <= 1 disables parallelism.
func Workers(workers int) Config {
	cfg := DefaultConfig()
	cfg.NumWorkers = workers
	cfg.Enabled = workers > 1

	return cfg
}

// panicError carries a recovered panic value across the errgroup boundary.
type panicError struct{ v any }

func (p panicError) Error() string { return fmt.Sprintf("parallel: panic in worker: %v", p.v) }

// For executes f(i) for i in [0, n) with optional parallelism.
// Falls back to sequential execution if parallelism is disabled or n is too small.
func For(n int, f func(i int), cfg Config) {
	if n <= 0 {
		return
	}
	_ = ForErr(context.Background(), n, func(_ context.Context, i int) error {
		f(i)
		return nil
	}, cfg)
}

// ForErr executes f(ctx, i) for i in [0, n) and returns the first error.
// The context handed to f is cancelled as soon as any iteration fails, and
// iterations that have not started yet are skipped.
func ForErr(ctx context.Context, n int, f func(ctx context.Context, i int) error, cfg Config) error {
	if n <= 0 {
		return nil
	}
	if !cfg.Enabled || cfg.NumWorkers <= 1 || n < 2*cfg.MinChunkSize {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := f(ctx, i); err != nil {
				return err
			}
		}
		return nil
	}

	chunk := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.NumWorkers)
	for start := 0; start < n; start += chunk {
		s, e := start, min(start+chunk, n)
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = panicError{v: r}
				}
			}()
			for i := s; i < e; i++ {
				if err = gctx.Err(); err != nil {
					return err
				}
				if err = f(gctx, i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	err := g.Wait()
	if p, ok := err.(panicError); ok {
		panic(p.v)
	}

	return err
}
