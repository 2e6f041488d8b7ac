// Package main is the entry point for the venvcache tool.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/venvcache/cmd/venvcache/commands"
	"go.trai.ch/venvcache/internal/app"
	"go.trai.ch/venvcache/internal/core/domain"
	_ "go.trai.ch/venvcache/internal/wiring"
)

// Exit codes.
const (
	exitOK      = 0
	exitMiss    = 1
	exitFailure = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Initialize application components
	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available yet, write directly to stderr
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return exitFailure
	}

	// 2. Interface - CLI
	cli := commands.New(components.App)
	cli.SetArgs(args)

	// 3. Execution
	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			components.Logger.Warn("no cached virtual environment found")
			return exitMiss
		}
		components.Logger.Error(err)
		return exitFailure
	}
	return exitOK
}
