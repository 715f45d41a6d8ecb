package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fintsync-dev/fintsync/internal/audit"
	"github.com/fintsync-dev/fintsync/internal/bank"
	"github.com/fintsync-dev/fintsync/internal/config"
	"github.com/fintsync-dev/fintsync/internal/state"
	"github.com/fintsync-dev/fintsync/internal/sync"
	"github.com/fintsync-dev/fintsync/internal/ynab"
)

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newBankClient builds the configured bank source: the CSV export when one
// is set, the FinTS bridge otherwise.
func newBankClient(cfg *config.Config) bank.Client {
	if cfg.CSVFile != "" {
		return bank.NewCSVClient(cfg.CSVFile)
	}
	return bank.NewBridgeClient(strings.Fields(cfg.BridgeCommand))
}

// newBankFactory returns the factory the orchestrator uses at startup and
// after session errors.
func newBankFactory(cfg *config.Config) sync.BankFactory {
	return func(ctx context.Context) (bank.Client, bank.Account, error) {
		client := newBankClient(cfg)
		account, err := client.SelectAccount(ctx, cfg.IBAN)
		if err != nil {
			return nil, bank.Account{}, err
		}
		return client, account, nil
	}
}

// newSyncer wires the full pipeline. An unknown IBAN is reported with the
// bank's account list before the error is returned, matching what an
// operator needs to fix the configuration.
func newSyncer(ctx context.Context, cfg *config.Config, logger *slog.Logger, debug bool) (*sync.Syncer, error) {
	factory := newBankFactory(cfg)

	client, account, err := factory(ctx)
	if err != nil {
		var notFound *bank.AccountNotFoundError
		if errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "Could not find account, is the IBAN correct?")
			for _, a := range notFound.Accounts {
				fmt.Fprintf(os.Stderr, "  %s %s\n", a.IBAN, a.Name)
			}
		}
		return nil, err
	}

	ledger := ynab.NewClient(cfg.AccessToken, cfg.AccountID, cfg.BudgetID)
	cursor := state.NewStore(cfg.StateFile, cfg.FallbackStartDate(time.Now()))

	var auditLog *audit.Log
	if cfg.AuditLog != "" {
		auditLog = audit.New(cfg.AuditLog)
	}

	opts := sync.Options{
		AccountID:  cfg.AccountID,
		FlagColor:  cfg.FlagColor,
		Debug:      debug || cfg.Debug,
		YNABCursor: cfg.YNABCursor,
		Interval:   cfg.SleepInterval,
	}
	return sync.NewSyncer(client, account, factory, ledger, cursor, auditLog, opts, logger), nil
}
