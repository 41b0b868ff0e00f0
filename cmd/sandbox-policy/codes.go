package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/sandbox/errors"
)

func newCodesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "codes",
		Short: "List violation codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tGROUP\tDESCRIPTION")
			for _, c := range errors.Codes() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", c, c.Group(), c.Description())
			}
			return w.Flush()
		},
	}
}
