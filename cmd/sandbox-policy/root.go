package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var version = "dev"

type rootFlags struct {
	verbose bool
	noColor bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "sandbox-policy",
		Short: "Inspect sandbox policy files",
		Long: `sandbox-policy validates the YAML policy files consumed by the sandbox and
lists the flags, categories and violation codes they refer to.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flags.noColor {
				color.NoColor = true
			}
		},
	}
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log policy construction")
	cmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", os.Getenv("NO_COLOR") != "", "disable colored output")

	cmd.AddCommand(newCheckCmd(flags))
	cmd.AddCommand(newFlagsCmd())
	cmd.AddCommand(newCodesCmd())
	return cmd
}

func (f *rootFlags) logger(cmd *cobra.Command) zerolog.Logger {
	if !f.verbose {
		return zerolog.Nop()
	}
	w := zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: color.NoColor}
	return zerolog.New(w).With().Timestamp().Logger()
}
