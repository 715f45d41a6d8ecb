// Package bank defines the statement-retrieval capability the sync consumes.
// The FinTS handshake, TAN challenges and dialog lifecycle all stay behind
// this boundary.
package bank

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fintsync-dev/fintsync/internal/model"
)

// Account is one account the bank reports for the authenticated login.
type Account struct {
	IBAN string
	Name string
	BLZ  string
}

// Client provides authenticated access to one bank login.
type Client interface {
	// Accounts lists the accounts available to the authenticated login.
	Accounts(ctx context.Context) ([]Account, error)

	// SelectAccount resolves the account with the given IBAN. It returns an
	// *AccountNotFoundError listing the available accounts when the IBAN is
	// not among them.
	SelectAccount(ctx context.Context, iban string) (Account, error)

	// Transactions returns the account's movements with booking date on or
	// after since, in the order the bank reports them. Callers must treat
	// that order as fixed.
	Transactions(ctx context.Context, account Account, since time.Time) ([]model.BankTransaction, error)
}

// AccountNotFoundError is returned by SelectAccount when the configured IBAN
// is not among the accounts the bank reports. It is a setup-time error:
// retrying will not help until the configuration changes.
type AccountNotFoundError struct {
	IBAN     string
	Accounts []Account
}

func (e *AccountNotFoundError) Error() string {
	ibans := make([]string, len(e.Accounts))
	for i, a := range e.Accounts {
		ibans[i] = a.IBAN
	}
	return fmt.Sprintf("account %s not found, available accounts: %s", e.IBAN, strings.Join(ibans, ", "))
}

// SessionError signals that the banking dialog expired or broke and the
// client must be rebuilt before the next attempt.
type SessionError struct {
	Err error
}

func (e *SessionError) Error() string { return "bank session: " + e.Err.Error() }

func (e *SessionError) Unwrap() error { return e.Err }

// findAccount is the shared IBAN lookup used by both client implementations.
func findAccount(accounts []Account, iban string) (Account, error) {
	for _, a := range accounts {
		if a.IBAN == iban {
			return a, nil
		}
	}
	return Account{}, &AccountNotFoundError{IBAN: iban, Accounts: accounts}
}
