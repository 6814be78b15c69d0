package commands

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.trai.ch/trier/internal/app"
	"go.trai.ch/trier/internal/core/domain"
	"go.trai.ch/trier/internal/ui/style"
)

func (c *CLI) newItemsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "List project items and their build actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all, _ := cmd.Flags().GetBool("all")
			ws, err := c.app.Workspace(dir(cmd))
			if err != nil {
				return err
			}
			items, err := c.app.Items(cmd.Context(), app.ItemsOptions{Dir: dir(cmd), All: all})
			if err != nil {
				return err
			}
			printItems(cmd, ws.Root, items, all)
			return nil
		},
	}
	cmd.Flags().BoolP("all", "a", false, "List the items of every project in the workspace")
	return cmd
}

func printItems(cmd *cobra.Command, root string, items []domain.ProjectItem, withProject bool) {
	out := cmd.OutOrStdout()
	r := lipgloss.NewRenderer(out)

	projectWidth, actionWidth := 0, 0
	for _, item := range items {
		projectWidth = max(projectWidth, lipgloss.Width(item.Project))
		actionWidth = max(actionWidth, lipgloss.Width(item.BuildAction.String()))
	}
	projectStyle := r.NewStyle().Foreground(style.Slate).Width(projectWidth + 2)
	actionStyle := r.NewStyle().Foreground(style.Iris).Width(actionWidth + 2)

	for _, item := range items {
		path := item.Path
		if rel, err := filepath.Rel(root, item.Path); err == nil {
			path = rel
		}
		line := actionStyle.Render(item.BuildAction.String()) + filepath.ToSlash(path)
		if withProject {
			line = projectStyle.Render(item.Project) + line
		}
		_, _ = fmt.Fprintln(out, line)
	}
}
