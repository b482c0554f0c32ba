// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/katalvlaran/bmat/mat"
	"github.com/katalvlaran/bmat/matfile"
	"github.com/katalvlaran/bmat/solver"
)

// output holds the flags that shape a written file.
type output struct {
	binary    bool
	precision int
	compress  string
}

func (o *output) register(fs *pflag.FlagSet) {
	fs.BoolVar(&o.binary, "binary", false, "write a binary payload")
	fs.IntVar(&o.precision, "precision", matfile.DefaultPrecision, "digits after the decimal point of text values")
	fs.StringVar(&o.compress, "compress", "none", "stream compression: none, zstd or lz4")
}

func (o *output) options(g *globals) ([]matfile.Option, error) {
	if o.precision < 0 || o.precision > matfile.MaxPrecision {
		return nil, fmt.Errorf("--precision must be in [0, %d]", matfile.MaxPrecision)
	}
	opts := []matfile.Option{matfile.WithLogger(g.logger), matfile.WithPrecision(o.precision)}
	if o.binary {
		opts = append(opts, matfile.WithBinary())
	}
	switch o.compress {
	case "none", "":
	case "zstd":
		opts = append(opts, matfile.WithCompression(matfile.CodecZstd))
	case "lz4":
		opts = append(opts, matfile.WithCompression(matfile.CodecLZ4))
	default:
		return nil, fmt.Errorf("--compress: unknown codec %q", o.compress)
	}

	return opts, nil
}

// pipeline reads args[0], maps every selected matrix through f and writes
// the results to args[1]. With --label only the selected matrices are written.
func pipeline(g *globals, out *output, f func(*mat.Matrix) (*mat.Matrix, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		wopts, err := out.options(g)
		if err != nil {
			return err
		}
		c, err := g.read(args[0])
		if err != nil {
			return err
		}
		res := mat.NewCollection()
		for i, m := range c.All() {
			if !g.selected(m) {
				continue
			}
			r, err := f(m)
			if err != nil {
				return fmt.Errorf("matrix %d (%s): %w", i, m.Label(), err)
			}
			r.SetLabel(m.Label())
			res.Append(r)
		}
		if err = matfile.WriteFile(args[1], res, wopts...); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d matrices to %s\n", res.Len(), args[1])
		return nil
	}
}

func newConvertCmd(g *globals) *cobra.Command {
	out := &output{}
	cmd := &cobra.Command{
		Use:   "convert IN OUT",
		Short: "Rewrite a file with another payload encoding or compression",
		Args:  cobra.ExactArgs(2),
		RunE: pipeline(g, out, func(m *mat.Matrix) (*mat.Matrix, error) {
			return m, nil
		}),
	}
	out.register(cmd.Flags())

	return cmd
}

func newReduceCmd(g *globals) *cobra.Command {
	out := &output{}
	var tol float64
	cmd := &cobra.Command{
		Use:   "reduce IN OUT",
		Short: "Replace every matrix by its reduced structural form",
		Args:  cobra.ExactArgs(2),
		RunE: pipeline(g, out, func(m *mat.Matrix) (*mat.Matrix, error) {
			if tol < 0 {
				return nil, errors.New("--tol must be non-negative")
			}
			return mat.Reduce(m, tol, mat.WithLogger(g.logger)), nil
		}),
	}
	cmd.Flags().Float64Var(&tol, "tol", mat.DefaultTolerance, "relative reduction tolerance")
	out.register(cmd.Flags())

	return cmd
}

func newInvertCmd(g *globals) *cobra.Command {
	out := &output{}
	var method, backend string
	var workers int
	cmd := &cobra.Command{
		Use:   "invert IN OUT",
		Short: "Invert every matrix (e.g. covariance to Fisher matrix)",
		Args:  cobra.ExactArgs(2),
		RunE: pipeline(g, out, func(m *mat.Matrix) (*mat.Matrix, error) {
			inv, err := inverter(method)
			if err != nil {
				return nil, err
			}
			opts := []mat.Option{mat.WithLogger(g.logger), mat.WithWorkers(max(workers, 0))}
			switch backend {
			case "gonum":
				opts = append(opts, mat.WithSolver(solver.Gonum{}))
			case "builtin":
				opts = append(opts, mat.WithSolver(solver.Builtin{}))
			default:
				return nil, fmt.Errorf("--solver: unknown backend %q", backend)
			}
			return inv(m, opts...)
		}),
	}
	cmd.Flags().StringVar(&method, "method", "qr", "inversion strategy: qr, direct, schur or cov")
	cmd.Flags().StringVar(&backend, "solver", "gonum", "dense backend: gonum or builtin")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = GOMAXPROCS)")
	out.register(cmd.Flags())

	return cmd
}

// inverter maps a --method value to an inversion strategy.
func inverter(method string) (mat.InvertFunc, error) {
	switch method {
	case "qr":
		return mat.Invert, nil
	case "direct":
		return mat.InvertDirect, nil
	case "schur":
		return mat.SchurInverter(mat.InvertDirect), nil
	case "cov":
		return func(m *mat.Matrix, opts ...mat.Option) (*mat.Matrix, error) {
			return mat.InvertCov(mat.InvertDirect, m, opts...)
		}, nil
	default:
		return nil, fmt.Errorf("--method: unknown strategy %q", method)
	}
}
