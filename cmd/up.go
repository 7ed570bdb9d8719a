package cmd

import "github.com/spf13/cobra"

// newUpCmd runs the full setup, the same as the root command.
func newUpCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Check every requirement, then run the launch command",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd.Context(), o, true)
		},
	}
}
