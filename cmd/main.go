package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okian/epiherd/pkg/logger"
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1) //nolint:gocritic // exitAfterDefer: stop is called explicitly above
	}
}

func newRootCmd() *cobra.Command {
	var logJSON bool

	root := &cobra.Command{
		Use:   "epiherd",
		Short: "Stochastic between-herd epidemic simulation",
		Long: `epiherd simulates disease spread within and between livestock farms.

Each simulated day advances every herd's SIR compartments, spreads infection
along farm contacts, and runs active and passive surveillance. Runs are
reproducible for a given seed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr()), logger.WithJSON(logJSON)); err != nil {
				return fmt.Errorf("failed to initialize logging: %w", err)
			}
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return logger.Sync()
		},
	}
	root.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit logs as JSON")

	root.AddCommand(runCmd())
	root.AddCommand(calendarCmd())
	return root
}
