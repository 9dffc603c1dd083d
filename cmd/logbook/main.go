// Logbook serves and fills the flight entry form.
//
// Usage:
//
//	logbook serve                  # HTML form on :8080
//	logbook new --format pretty    # fill an entry in the terminal
//	logbook schema --format yaml   # print the save contract
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
