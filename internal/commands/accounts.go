package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fintsync-dev/fintsync/internal/config"
)

func newAccountsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List the accounts the bank reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.BridgeCommand == "" && cfg.CSVFile == "" {
				return fmt.Errorf("either FINTS_BRIDGE_CMD or BANK_CSV_FILE must be set")
			}

			accounts, err := newBankClient(cfg).Accounts(cmd.Context())
			if err != nil {
				return err
			}
			if len(accounts) == 0 {
				fmt.Println("No accounts reported")
				return nil
			}
			for _, a := range accounts {
				fmt.Printf("%s %s\n", a.IBAN, a.Name)
			}
			return nil
		},
	}
}
