package ynab

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintsync-dev/fintsync/internal/model"
)

const dateFormat = "2006-01-02"

var milliunitFactor = decimal.NewFromInt(1000)

// Transform converts a batch of bank transactions into YNAB transactions,
// preserving input order. today is the clamp boundary for future-dated
// bookings; only the calendar date matters.
func Transform(txns []model.BankTransaction, accountID, flagColor string, today time.Time) []Transaction {
	transformed := make([]Transaction, 0, len(txns))
	occurrences := make(map[string]int, len(txns))

	today = truncateToDay(today)
	for _, tx := range txns {
		// The bank sometimes books transactions dated in the future. YNAB
		// rejects future dates, and the money moved already anyway, so the
		// date is pulled back to today.
		date := truncateToDay(tx.Date)
		if date.After(today) {
			date = today
		}
		dateStr := date.Format(dateFormat)

		amount := tx.Amount.Mul(milliunitFactor).Round(0).IntPart()

		// Identical-looking purchases on the same day must not share an
		// import ID or YNAB silently drops all but the first.
		key := fmt.Sprintf("%d:%s", amount, dateStr)
		occurrences[key]++

		transformed = append(transformed, Transaction{
			AccountID: accountID,
			Date:      dateStr,
			Amount:    amount,
			PayeeName: cleanPayee(tx.ApplicantName, tx.Purpose),
			Cleared:   "cleared",
			Memo:      tx.Purpose,
			FlagColor: flagColor,
			ImportID:  FormatImportID(amount, dateStr, occurrences[key]),
		})
	}
	return transformed
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
