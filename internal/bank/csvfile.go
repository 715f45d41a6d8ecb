package bank

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintsync-dev/fintsync/internal/model"
)

// CSVClient reads an ING banking CSV export as the transaction source. It
// exists for offline use and for trying the pipeline before a FinTS bridge
// is set up. Exports carry no end-to-end references, so fingerprints fall
// back to the remaining fields.
type CSVClient struct {
	path string
}

const (
	ingDateFormat = "02.01.2006"
	ingNumFields  = 9
	ingColDate    = 0
	ingColPayee   = 2
	ingColPurpose = 4
	ingColAmount  = 7
)

// ingHeaderPrefix starts the column-header row that ends the metadata
// preamble of an export.
const ingHeaderPrefix = "Buchung;"

// NewCSVClient creates a CSVClient reading the export file at path.
func NewCSVClient(path string) *CSVClient {
	return &CSVClient{path: path}
}

// Accounts returns the single account named in the export's metadata
// preamble (the "IBAN;DE.." line). An export without one yields no accounts.
func (c *CSVClient) Accounts(_ context.Context) ([]Account, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}

	var account Account
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, ingHeaderPrefix) {
			break
		}
		key, value, ok := strings.Cut(strings.TrimRight(line, "\r"), ";")
		if !ok {
			continue
		}
		switch key {
		case "IBAN":
			// Exports print the IBAN in space-grouped form.
			account.IBAN = strings.ReplaceAll(value, " ", "")
		case "Kontoname":
			account.Name = value
		}
	}

	if account.IBAN == "" {
		return nil, nil
	}
	return []Account{account}, nil
}

// SelectAccount resolves the account with the given IBAN against the
// export's metadata.
func (c *CSVClient) SelectAccount(ctx context.Context, iban string) (Account, error) {
	accounts, err := c.Accounts(ctx)
	if err != nil {
		return Account{}, err
	}
	return findAccount(accounts, iban)
}

// Transactions parses the export and returns movements booked on or after
// since. ING exports list newest first; the result is reversed so the batch
// runs oldest to newest like the statement protocol delivers it.
func (c *CSVClient) Transactions(_ context.Context, _ Account, since time.Time) ([]model.BankTransaction, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}

	body, err := stripPreamble(string(data))
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(strings.NewReader(body))
	cr.Comma = ';'
	cr.FieldsPerRecord = ingNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading export rows: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var txns []model.BankTransaction
	for i, rec := range records[1:] {
		tx, err := parseINGRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if tx.Date.Before(since) {
			continue
		}
		txns = append(txns, tx)
	}

	for i, j := 0, len(txns)-1; i < j; i, j = i+1, j-1 {
		txns[i], txns[j] = txns[j], txns[i]
	}
	return txns, nil
}

// stripPreamble drops the metadata lines before the column-header row.
func stripPreamble(data string) (string, error) {
	idx := strings.Index(data, ingHeaderPrefix)
	if idx < 0 {
		return "", fmt.Errorf("no column header found, is this an ING export?")
	}
	return data[idx:], nil
}

func parseINGRow(rec []string) (model.BankTransaction, error) {
	date, err := time.Parse(ingDateFormat, rec[ingColDate])
	if err != nil {
		return model.BankTransaction{}, fmt.Errorf("parsing date %q: %w", rec[ingColDate], err)
	}

	amount, err := parseINGAmount(rec[ingColAmount])
	if err != nil {
		return model.BankTransaction{}, err
	}

	return model.BankTransaction{
		Date:          date,
		ApplicantName: rec[ingColPayee],
		Purpose:       rec[ingColPurpose],
		Amount:        amount,
	}, nil
}

// parseINGAmount reads a German-formatted amount like "-1.337,00".
func parseINGAmount(s string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(s, ".", "")
	normalized = strings.ReplaceAll(normalized, ",", ".")
	amount, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return amount, nil
}
