// Command assess evaluates housing assessment regressors and writes the
// score and coefficient reports.
package main

import (
	"context"
	"os"
	"os/signal"

	"housingassess/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
