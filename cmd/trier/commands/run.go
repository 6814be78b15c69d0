package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/trier/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [scripts...]",
		Short: "Run scripts and reconcile their outputs",
		Long:  "Run the named scripts, or every script of the workspace when none are named.",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, _ := cmd.Flags().GetInt("jobs")
			return c.app.Run(cmd.Context(), args, app.RunOptions{
				Dir:  dir(cmd),
				Jobs: jobs,
			})
		},
	}
	cmd.Flags().IntP("jobs", "j", 0, "Maximum number of scripts run in parallel")
	return cmd
}
