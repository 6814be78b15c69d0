package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/trier/internal/adapters/watcher" //nolint:depguard // Default exposed as flag value
	"go.trai.ch/trier/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate scripts whenever they change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			jobs, _ := cmd.Flags().GetInt("jobs")
			window, _ := cmd.Flags().GetDuration("debounce")
			return c.app.Watch(cmd.Context(), app.WatchOptions{
				Dir:    dir(cmd),
				Jobs:   jobs,
				Window: window,
			})
		},
	}
	cmd.Flags().IntP("jobs", "j", 0, "Maximum number of scripts run in parallel")
	cmd.Flags().Duration("debounce", watcher.DefaultDebounceWindow, "Quiet period before changed scripts run")
	return cmd
}
