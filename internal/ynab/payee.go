package ynab

import (
	"regexp"
	"strings"
)

// The statement feed reports PayPal itself as the counterparty for every
// pass-through purchase, which destroys the useful information: the actual
// merchant only survives inside the purpose text, after the "Ihr Einkauf
// bei" phrase. The feed is sloppy about whitespace, too: the parenthesized
// part of PayPal's legal name loses or gains spaces, the delimiter phrase
// can miss its surrounding spaces, and long purposes wrap with embedded
// newlines. Both patterns below take the most permissive reading.
var (
	paypalPayeePattern   = regexp.MustCompile(`(?i)^\s*paypal\s*\(\s*europe\s*\)\s*s\.?\s*a\.?\s*r\.?\s*l\.?\s*et\s*cie[.,]?\s*s\.?\s*c\.?\s*a\.?\s*$`)
	paypalPurposePattern = regexp.MustCompile(`(?is)ihr\s*einkauf\s*bei\s*(.+)$`)
)

// paypalPrefix marks payees recovered from PayPal purposes.
const paypalPrefix = "PayPal: "

// cleanPayee rewrites PayPal pass-through payees to the actual merchant when
// the purpose text reveals it. Any other payee, and any PayPal payee whose
// purpose does not match, passes through unchanged.
func cleanPayee(payee, purpose string) string {
	if !paypalPayeePattern.MatchString(payee) {
		return payee
	}

	m := paypalPurposePattern.FindStringSubmatch(purpose)
	if m == nil {
		return payee
	}

	// Collapse wrapped lines and irregular spacing in the merchant name.
	merchant := strings.Join(strings.Fields(m[1]), " ")
	if merchant == "" {
		return payee
	}
	return paypalPrefix + merchant
}
