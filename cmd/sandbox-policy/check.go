package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/sandbox/policy"
)

// errCheckFailed is returned when at least one policy file is invalid.
var errCheckFailed = errors.New("policy check failed")

func newCheckCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Validate policy files",
		Long: `Parse and validate each policy file and build the store it describes.

Every problem in a file is reported, not just the first one.

Examples:
  sandbox-policy check policy.yaml
  sandbox-policy check -v policies/*.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkFiles(cmd, root, args)
		},
	}
}

func checkFiles(cmd *cobra.Command, root *rootFlags, paths []string) error {
	out := cmd.OutOrStdout()
	ok := color.New(color.FgGreen).SprintFunc()
	bad := color.New(color.FgRed, color.Bold).SprintFunc()
	log := root.logger(cmd)

	failed := 0
	for _, path := range paths {
		cfg, err := policy.LoadConfig(path)
		if err == nil {
			var store *policy.Store
			store, err = cfg.NewStore(policy.WithLogger(log))
			if err == nil {
				fmt.Fprintf(out, "%s %s (handle %s, flags: %s)\n", ok("ok"), path, store.Handle(), store.Flags())
				continue
			}
		}
		failed++
		fmt.Fprintf(out, "%s %s\n", bad("FAIL"), path)
		for _, problem := range problems(err) {
			fmt.Fprintf(out, "  - %s\n", problem)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d files invalid", errCheckFailed, failed, len(paths))
	}
	return nil
}

// problems flattens a validation error into its individual messages.
func problems(err error) []string {
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(merr.Errors))
	for _, e := range merr.Errors {
		out = append(out, e.Error())
	}
	return out
}
