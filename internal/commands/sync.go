package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fintsync-dev/fintsync/internal/config"
)

func newSyncCommand() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run exactly one sync cycle and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := newLogger(debug || cfg.Debug)

			syncer, err := newSyncer(cmd.Context(), cfg, logger, debug)
			if err != nil {
				return err
			}

			count, err := syncer.RunCycle(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d new transaction(s)\n", count)
			return nil
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "preview transactions instead of importing them")
	return cmd
}
