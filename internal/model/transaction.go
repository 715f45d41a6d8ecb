package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankTransaction represents one movement as the bank's statement feed
// reports it.
type BankTransaction struct {
	Date              time.Time       // booking date, occasionally dated in the future
	ApplicantName     string          // counterparty free text
	Purpose           string          // memo free text, may contain embedded newlines
	Amount            decimal.Decimal // negative = debit, positive = credit
	EndToEndReference string          // SEPA end-to-end reference, empty when the bank omits it
}
