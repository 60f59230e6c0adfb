// Command thresh simulates threshold key generation, resharing and
// correlated OT extension between in-process parties.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/f3rmion/thresh/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "thresh: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var level string
	root := &cobra.Command{
		Use:           "thresh",
		Short:         "Simulate threshold key generation and correlated OT",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&level, "log-level", "info", "log level (debug, info, warn, error)")

	logger := func(cmd *cobra.Command) (zerolog.Logger, error) {
		lvl, err := logging.ParseLevel(level)
		if err != nil {
			return zerolog.Logger{}, err
		}
		return logging.Console(cmd.ErrOrStderr(), lvl), nil
	}
	root.AddCommand(newSimulateCmd(logger), newCOTCmd(logger))
	return root
}
