// Package sync runs the periodic import cycles against the bank and the
// ledger service.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/fintsync-dev/fintsync/internal/audit"
	"github.com/fintsync-dev/fintsync/internal/bank"
	"github.com/fintsync-dev/fintsync/internal/dedup"
	"github.com/fintsync-dev/fintsync/internal/ynab"
)

// Ledger is the budgeting-service surface the orchestrator needs. It is
// satisfied by *ynab.Client.
type Ledger interface {
	ImportTransactions(ctx context.Context, txns []ynab.Transaction) ([]string, error)
	LatestTransactionDate(ctx context.Context) (time.Time, bool, error)
}

// CursorStore persists sync progress between cycles. It is satisfied by
// *state.Store.
type CursorStore interface {
	Restore() (time.Time, string)
	Store(lastHash string) error
}

// BankFactory builds a bank client and selects the configured account. The
// orchestrator invokes it again after a session error, making
// re-establishment a plain "construct a new handle" operation.
type BankFactory func(ctx context.Context) (bank.Client, bank.Account, error)

// Options configure a Syncer.
type Options struct {
	AccountID string // YNAB account receiving the entries
	FlagColor string
	Debug     bool // preview only: no import, no cursor advancement
	// YNABCursor resumes from the ledger's latest transaction date instead
	// of the local cursor store. No content hash exists on that path, so
	// dedup relies on the date range plus import IDs.
	YNABCursor bool
	Interval   time.Duration
}

// Syncer runs synchronization cycles strictly sequentially. It is not safe
// for concurrent use: a cycle reads the cursor at its start and writes it at
// its end, and overlapping cycles would race on that slot.
type Syncer struct {
	bank    bank.Client
	account bank.Account
	factory BankFactory
	ledger  Ledger
	cursor  CursorStore
	audit   *audit.Log
	opts    Options
	logger  *slog.Logger
	now     func() time.Time
}

// NewSyncer creates a Syncer. auditLog may be nil to disable audit logging.
func NewSyncer(bankClient bank.Client, account bank.Account, factory BankFactory, ledger Ledger, cursor CursorStore, auditLog *audit.Log, opts Options, logger *slog.Logger) *Syncer {
	return &Syncer{
		bank:    bankClient,
		account: account,
		factory: factory,
		ledger:  ledger,
		cursor:  cursor,
		audit:   auditLog,
		opts:    opts,
		logger:  logger,
		now:     time.Now,
	}
}

// RunCycle performs one synchronization cycle and returns the number of
// transactions imported. In debug mode nothing is imported and the cursor
// stays untouched, so a later real run reprocesses the same window.
func (s *Syncer) RunCycle(ctx context.Context) (int, error) {
	cycleID := uuid.NewString()
	logger := s.logger.With(slog.String("cycle_id", cycleID))

	start, lastHash, err := s.resumePoint(ctx)
	if err != nil {
		return 0, err
	}

	txns, err := s.bank.Transactions(ctx, s.account, start)
	if err != nil {
		return 0, fmt.Errorf("fetching transactions: %w", err)
	}
	if len(txns) == 0 {
		logger.Info("no transactions found", slog.Time("since", start))
		return 0, nil
	}

	fresh := dedup.FilterNew(txns, lastHash)
	if len(fresh) == 0 {
		logger.Info("no new transactions found", slog.Int("fetched", len(txns)))
		return 0, nil
	}

	entries := ynab.Transform(fresh, s.opts.AccountID, s.opts.FlagColor, s.now())

	if s.opts.Debug {
		if err := previewEntries(entries); err != nil {
			return 0, err
		}
		logger.Info("debug mode, skipped import", slog.Int("count", len(entries)))
		return 0, nil
	}

	ids, err := s.ledger.ImportTransactions(ctx, entries)
	if err != nil {
		return 0, fmt.Errorf("importing transactions: %w", err)
	}

	lastFingerprint := dedup.Fingerprint(fresh[len(fresh)-1])
	if !s.opts.YNABCursor {
		if err := s.cursor.Store(lastFingerprint); err != nil {
			return 0, fmt.Errorf("persisting cursor: %w", err)
		}
	}

	if s.audit != nil {
		entry := audit.Entry{
			Timestamp: s.now(),
			CycleID:   cycleID,
			Imported:  len(ids),
			LastHash:  lastFingerprint,
		}
		if err := s.audit.Append(entry); err != nil {
			// The audit log is advisory, a failed append must not fail a
			// completed cycle.
			logger.Warn("audit log append failed", slog.String("error", err.Error()))
		}
	}

	logger.Info("imported transactions", slog.Int("count", len(ids)))
	return len(ids), nil
}

// Run executes cycles until ctx is canceled, sleeping Options.Interval
// between them. Cycle failures never stop the loop: the cursor is still
// unadvanced, so the next tick naturally retries the same window. A session
// error additionally rebuilds the bank client before the next cycle.
func (s *Syncer) Run(ctx context.Context) error {
	for {
		if _, err := s.RunCycle(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.handleCycleError(ctx, err)
		}

		s.logger.Info("sleeping", slog.Duration("interval", s.opts.Interval))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.opts.Interval):
		}
	}
}

func (s *Syncer) handleCycleError(ctx context.Context, err error) {
	var sessionErr *bank.SessionError
	var ledgerErr *ynab.Error
	switch {
	case errors.As(err, &sessionErr):
		s.logger.Warn("bank session needs re-establishment", slog.String("error", err.Error()))
		client, account, ferr := s.factory(ctx)
		if ferr != nil {
			s.logger.Error("rebuilding bank client failed", slog.String("error", ferr.Error()))
			return
		}
		s.bank = client
		s.account = account
	case errors.As(err, &ledgerErr):
		s.logger.Error("could not import transactions", slog.String("detail", ledgerErr.Detail))
	default:
		s.logger.Error("cycle failed", slog.String("error", err.Error()))
	}
}

// resumePoint determines the fetch start date and the dedup hash for this
// cycle, depending on the active cursor strategy.
func (s *Syncer) resumePoint(ctx context.Context) (time.Time, string, error) {
	if s.opts.YNABCursor {
		date, ok, err := s.ledger.LatestTransactionDate(ctx)
		if err != nil {
			return time.Time{}, "", fmt.Errorf("querying latest ledger date: %w", err)
		}
		if !ok {
			return s.now().AddDate(0, 0, -7), "", nil
		}
		return date, "", nil
	}

	date, hash := s.cursor.Restore()
	return date, hash, nil
}

// previewEntries prints each normalized entry as a YAML document for
// inspection.
func previewEntries(entries []ynab.Transaction) error {
	for _, e := range entries {
		out, err := yaml.Marshal(e)
		if err != nil {
			return fmt.Errorf("rendering preview: %w", err)
		}
		fmt.Fprintf(os.Stdout, "---\n%s", out)
	}
	return nil
}
