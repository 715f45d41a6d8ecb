package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fintsync-dev/fintsync/internal/config"
)

func newRunCommand() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the sync loop until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := newLogger(debug || cfg.Debug)

			syncer, err := newSyncer(ctx, cfg, logger, debug)
			if err != nil {
				return err
			}

			if err := syncer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			logger.Info("interrupted, shutting down")
			return nil
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "preview transactions instead of importing them")
	return cmd
}
