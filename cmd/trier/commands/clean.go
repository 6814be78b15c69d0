package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/trier/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [scripts...]",
		Short: "Delete the recorded outputs of scripts",
		Long:  "Delete every output recorded in the manifests of the named scripts, or of every script when none are named.",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Clean(cmd.Context(), args, app.CleanOptions{Dir: dir(cmd)})
		},
	}
}
