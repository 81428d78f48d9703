package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// errReported marks a failure the user has already been told about
var errReported = errors.New("reported")

func newRootCmd() *cobra.Command {
	cmd := newPublishCmd()
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	cmd.AddCommand(
		newDoctorCmd(),
		newConfigCmd(),
	)

	return cmd
}

// run executes the command line and returns the process exit code
func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := newRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func main() {
	os.Exit(run())
}
