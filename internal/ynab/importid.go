package ynab

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatImportID returns an import ID like "YNAB:-42240:2020-06-13:1".
// The occurrence index disambiguates identical-looking same-day transactions
// so YNAB does not collapse them into one.
func FormatImportID(amount int64, date string, occurrence int) string {
	return fmt.Sprintf("YNAB:%d:%s:%d", amount, date, occurrence)
}

// ParseImportID parses "YNAB:-42240:2020-06-13:1" into its parts.
func ParseImportID(id string) (amount int64, date string, occurrence int, err error) {
	parts := strings.Split(id, ":")
	if len(parts) != 4 || parts[0] != "YNAB" {
		return 0, "", 0, fmt.Errorf("invalid import ID format: %q", id)
	}

	amount, err = strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, "", 0, fmt.Errorf("invalid amount in import ID %q: %w", id, err)
	}

	occurrence, err = strconv.Atoi(parts[3])
	if err != nil {
		return 0, "", 0, fmt.Errorf("invalid occurrence in import ID %q: %w", id, err)
	}

	return amount, parts[2], occurrence, nil
}
