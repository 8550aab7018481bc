// Command layerdemo replays scene files through the layer adapter.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/go-drift/layerkit/cmd/layerdemo/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
