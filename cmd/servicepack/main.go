package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/erp/servicepack/internal/cli"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &cli.App{}
	// Close also runs from the root post-run hook; this covers failed commands
	defer func() { _ = app.Close(context.Background()) }()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
