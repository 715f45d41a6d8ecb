package bank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintsync-dev/fintsync/internal/model"
)

// BridgeClient consumes an external helper command that owns the FinTS
// dialog (authentication, TAN, session state) and prints JSON on stdout.
// Two invocations are expected:
//
//	<cmd> accounts
//	<cmd> transactions --iban <iban> --since <YYYY-MM-DD>
//
// A non-zero exit whose stderr mentions an expired session or aborted dialog
// maps to *SessionError, so the caller can rebuild the bridge and retry on
// the next cycle.
type BridgeClient struct {
	command []string
}

const bridgeDateFormat = "2006-01-02"

// sessionMarkers are the stderr fragments the helper emits when the FinTS
// dialog needs re-establishment.
var sessionMarkers = []string{"session expired", "dialog aborted", "needs tan"}

type bridgeAccount struct {
	IBAN string `json:"iban"`
	Name string `json:"name"`
	BLZ  string `json:"blz"`
}

type bridgeTransaction struct {
	Date              string `json:"date"`
	ApplicantName     string `json:"applicant_name"`
	Purpose           string `json:"purpose"`
	Amount            string `json:"amount"`
	EndToEndReference string `json:"end_to_end_reference"`
}

// NewBridgeClient creates a BridgeClient running the given command, where
// command[0] is the executable and the rest are fixed leading arguments.
func NewBridgeClient(command []string) *BridgeClient {
	return &BridgeClient{command: command}
}

// Accounts lists the accounts the bridge reports.
func (c *BridgeClient) Accounts(ctx context.Context) ([]Account, error) {
	out, err := c.run(ctx, "accounts")
	if err != nil {
		return nil, err
	}

	var raw []bridgeAccount
	if err := json.Unmarshal(out, &raw); err != nil {
		return nil, fmt.Errorf("decoding accounts: %w", err)
	}

	accounts := make([]Account, len(raw))
	for i, a := range raw {
		accounts[i] = Account{IBAN: a.IBAN, Name: a.Name, BLZ: a.BLZ}
	}
	return accounts, nil
}

// SelectAccount resolves the account with the given IBAN.
func (c *BridgeClient) SelectAccount(ctx context.Context, iban string) (Account, error) {
	accounts, err := c.Accounts(ctx)
	if err != nil {
		return Account{}, err
	}
	return findAccount(accounts, iban)
}

// Transactions fetches the account's movements since the given date.
func (c *BridgeClient) Transactions(ctx context.Context, account Account, since time.Time) ([]model.BankTransaction, error) {
	out, err := c.run(ctx, "transactions", "--iban", account.IBAN, "--since", since.Format(bridgeDateFormat))
	if err != nil {
		return nil, err
	}

	var raw []bridgeTransaction
	if err := json.Unmarshal(out, &raw); err != nil {
		return nil, fmt.Errorf("decoding transactions: %w", err)
	}

	txns := make([]model.BankTransaction, 0, len(raw))
	for i, tx := range raw {
		parsed, err := parseBridgeTransaction(tx)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		txns = append(txns, parsed)
	}
	return txns, nil
}

func parseBridgeTransaction(tx bridgeTransaction) (model.BankTransaction, error) {
	date, err := time.Parse("2006-01-02T15:04:05", tx.Date)
	if err != nil {
		date, err = time.Parse(bridgeDateFormat, tx.Date)
	}
	if err != nil {
		return model.BankTransaction{}, fmt.Errorf("parsing date %q: %w", tx.Date, err)
	}

	amount, err := decimal.NewFromString(tx.Amount)
	if err != nil {
		return model.BankTransaction{}, fmt.Errorf("parsing amount %q: %w", tx.Amount, err)
	}

	return model.BankTransaction{
		Date:              date,
		ApplicantName:     tx.ApplicantName,
		Purpose:           tx.Purpose,
		Amount:            amount,
		EndToEndReference: tx.EndToEndReference,
	}, nil
}

func (c *BridgeClient) run(ctx context.Context, args ...string) ([]byte, error) {
	full := append(append([]string{}, c.command[1:]...), args...)
	cmd := exec.CommandContext(ctx, c.command[0], full...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		lower := strings.ToLower(msg)
		for _, marker := range sessionMarkers {
			if strings.Contains(lower, marker) {
				return nil, &SessionError{Err: fmt.Errorf("%s: %w", msg, err)}
			}
		}
		if msg == "" {
			return nil, fmt.Errorf("bridge %s: %w", args[0], err)
		}
		return nil, fmt.Errorf("bridge %s: %s: %w", args[0], msg, err)
	}
	return stdout.Bytes(), nil
}
