package main

import (
	"context"
	"fmt"
	"os"

	"github.com/erp/servicepack/internal/cli"
)

func main() {
	app := &cli.App{}
	err := cli.NewMigrateRootCmd(app).ExecuteContext(context.Background())
	_ = app.Close(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
