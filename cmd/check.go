package cmd

import "github.com/spf13/cobra"

// newCheckCmd verifies and remediates requirements but never launches.
func newCheckCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check every requirement without running the launch command",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd.Context(), o, false)
		},
	}
}
