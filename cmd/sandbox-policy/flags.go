package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/sandbox/policy"
)

func newFlagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flags",
		Short: "List feature flags, their defaults and the list categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults := policy.DefaultFlags()
			on := color.New(color.FgGreen).SprintFunc()
			off := color.New(color.FgHiBlack).SprintFunc()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "FLAG\tDEFAULT")
			for _, f := range policy.AllFlags() {
				value := off("false")
				if defaults.Has(f) {
					value = on("true")
				}
				fmt.Fprintf(w, "%s\t%s\n", f, value)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), "CATEGORIES")
			for _, c := range policy.AllCategories() {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
}
