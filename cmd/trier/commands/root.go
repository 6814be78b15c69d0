// Package commands implements the CLI commands for trier.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/trier/internal/app"
	"go.trai.ch/trier/internal/build"
	"go.trai.ch/trier/internal/core/ports"
)

// jsonSetter is implemented by loggers that can switch to JSON output.
type jsonSetter interface {
	SetJSON(enable bool)
}

// CLI represents the command line interface for trier.
type CLI struct {
	app     *app.App
	logger  ports.Logger
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app and logger.
func New(a *app.App, log ports.Logger) *CLI {
	rootCmd := &cobra.Command{
		Use:           "trier",
		Short:         "Script-driven code generation for projects",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}
	rootCmd.SetVersionTemplate(fmt.Sprintf("trier version {{.Version}} (%s, %s)\n", build.Commit, build.Date))

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("dir", "C", ".", "Directory to look for configuration from")
	rootCmd.PersistentFlags().Bool("json", false, "Write log records as JSON")

	c := &CLI{
		app:     a,
		logger:  log,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			if s, ok := c.logger.(jsonSetter); ok {
				s.SetJSON(true)
			}
		}
	}

	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newItemsCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput redirects command output. Used for testing.
func (c *CLI) SetOutput(w io.Writer) {
	c.rootCmd.SetOut(w)
	c.rootCmd.SetErr(w)
}

func dir(cmd *cobra.Command) string {
	d, _ := cmd.Flags().GetString("dir")
	return d
}
