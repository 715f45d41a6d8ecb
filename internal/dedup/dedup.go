// Package dedup identifies already-imported transactions across sync cycles.
//
// A transaction is identified by a digest over its business fields rather
// than by any bank-assigned ID, because the statement feed does not supply
// one. The digest of the last imported transaction is persisted between runs
// and used to locate the resume point in the next fetched batch.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/fintsync-dev/fintsync/internal/model"
)

// Fingerprint returns a stable hex digest identifying a transaction by its
// business fields. The serialization (field order, ":" delimiter, textual
// forms) must never change: persisted cursors reference these digests across
// runs.
func Fingerprint(tx model.BankTransaction) string {
	payload := fmt.Sprintf("%s:%s:%s:%s:%s",
		fingerprintDate(tx.Date),
		tx.ApplicantName,
		tx.Purpose,
		tx.Amount.String(),
		tx.EndToEndReference,
	)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// fingerprintDate keeps the time part only when the source supplied one, so
// date-only feeds and date-time feeds both serialize the way they arrived.
func fingerprintDate(d time.Time) string {
	if d.Hour() == 0 && d.Minute() == 0 && d.Second() == 0 {
		return d.Format("2006-01-02")
	}
	return d.Format("2006-01-02 15:04:05")
}

// FilterNew returns the transactions strictly after the one whose fingerprint
// equals lastHash, preserving the source order. If lastHash is empty, or no
// transaction in the batch matches (first run, or the cursor transaction fell
// outside the fetched window), the whole batch is returned unchanged.
func FilterNew(txns []model.BankTransaction, lastHash string) []model.BankTransaction {
	if lastHash == "" {
		return txns
	}
	for i, tx := range txns {
		if Fingerprint(tx) == lastHash {
			return txns[i+1:]
		}
	}
	return txns
}
