package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hsrdle/datagen/cmd"
	"github.com/hsrdle/datagen/internal/buildinfo"
)

// Injected with -ldflags "-X main.version=... -X main.buildDate=... -X main.commit=..."
var (
	version   = ""
	buildDate = ""
	commit    = ""
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd, cleanup := cmd.RootCommand(buildinfo.NewContext(version, buildDate, commit))
	defer cleanup()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
