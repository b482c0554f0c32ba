// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/bmat/mat"
)

func newInspectCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE",
		Short: "List the matrices of a file with their shape and fingerprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.read(args[0])
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tLABEL\tKIND\tBLOCK\tDIMS\tDEPTH\tSTORED\tNORM\tFINGERPRINT")
			for i, m := range c.All() {
				label := m.Label()
				if label == "" {
					label = "--"
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%t\t%s\t%d\t%d\t%.6e\t%016x\n",
					i, label, m.Kind(), m.IsBlock(), m.FullDims(), m.Depth(),
					mat.Count(m), mat.PNorm(m, 2), mat.Fingerprint(m))
			}
			return tw.Flush()
		},
	}
}
