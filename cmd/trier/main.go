// Package main is the entry point for the trier code generator.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/trier/cmd/trier/commands"
	"go.trai.ch/trier/internal/app"
	"go.trai.ch/trier/internal/core/domain"
	_ "go.trai.ch/trier/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run(opts ...graft.Option) int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Initialize application components
	components, _, err := graft.ExecuteFor[*app.Components](ctx, opts...)
	if err != nil {
		// Logger is not available yet if initialization failed
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}
	defer func() { _ = components.Telemetry.Close() }()

	// 2. Interface - CLI
	cli := commands.New(components.App, components.Logger)

	// 3. Execution
	if err := cli.Execute(ctx); err != nil {
		// Per-script failures were already reported as diagnostics.
		if errors.Is(err, domain.ErrGenerationFailed) || errors.Is(err, domain.ErrCleanFailed) {
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}
