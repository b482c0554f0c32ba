// SPDX-License-Identifier: MIT

// Command bmat inspects and transforms block-matrix files.
//
// Usage:
//
//	bmat inspect cov.txt
//	bmat convert cov.txt cov.bin --binary --compress zstd
//	bmat reduce cov.txt cov.reduced.txt --tol 1e-10
//	bmat invert cov.txt fisher.txt --method schur --solver builtin
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/bmat/mat"
	"github.com/katalvlaran/bmat/matfile"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// globals holds the persistent flags shared by every subcommand.
type globals struct {
	logLevel string
	label    string
	logger   *slog.Logger
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:          "bmat",
		Short:        "Inspect and transform structured block-matrix files",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(strings.ToUpper(g.logLevel))); err != nil {
				return fmt.Errorf("--log-level: %w", err)
			}
			g.logger = mat.NewTextLogger(level)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	root.PersistentFlags().StringVar(&g.label, "label", "", "only load the matrices labeled with this value")

	root.AddCommand(newInspectCmd(g), newConvertCmd(g), newReduceCmd(g), newInvertCmd(g))

	return root
}

// read loads a file honoring the --label flag.
func (g *globals) read(path string) (*mat.Collection, error) {
	opts := []matfile.Option{matfile.WithLogger(g.logger)}
	if g.label != "" {
		opts = append(opts, matfile.WithLabel(g.label))
	}

	return matfile.ReadFile(path, opts...)
}

// selected reports whether m takes part in a transformation.
func (g *globals) selected(m *mat.Matrix) bool {
	return g.label == "" || m.Label() == g.label
}
