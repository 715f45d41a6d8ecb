package ynab

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintsync-dev/fintsync/internal/model"
)

var testToday = time.Date(2021, 3, 1, 12, 30, 0, 0, time.UTC)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func txn(t *testing.T, date, applicant, purpose, amount string) model.BankTransaction {
	t.Helper()
	d, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	return model.BankTransaction{
		Date:          d,
		ApplicantName: applicant,
		Purpose:       purpose,
		Amount:        mustDecimal(t, amount),
	}
}

func TestTransform_Basic(t *testing.T) {
	txns := []model.BankTransaction{
		txn(t, "2020-01-11", "foo", "bar", "42.24"),
		txn(t, "2020-08-11", "bar", "baz", "-1337"),
	}

	entries := Transform(txns, "abcdef", "orange", testToday)
	require.Len(t, entries, 2)

	assert.Equal(t, Transaction{
		AccountID: "abcdef",
		Date:      "2020-01-11",
		Amount:    42240,
		PayeeName: "foo",
		Cleared:   "cleared",
		Memo:      "bar",
		FlagColor: "orange",
		ImportID:  "YNAB:42240:2020-01-11:1",
	}, entries[0])

	assert.Equal(t, Transaction{
		AccountID: "abcdef",
		Date:      "2020-08-11",
		Amount:    -1337000,
		PayeeName: "bar",
		Cleared:   "cleared",
		Memo:      "baz",
		FlagColor: "orange",
		ImportID:  "YNAB:-1337000:2020-08-11:1",
	}, entries[1])
}

func TestTransform_AmountExactness(t *testing.T) {
	cases := []struct {
		amount string
		want   int64
	}{
		{"42.24", 42240},
		{"-1337", -1337000},
		{"0.01", 10},
		{"-0.01", -10},
		{"999999.99", 999999990},
	}
	for _, tc := range cases {
		entries := Transform([]model.BankTransaction{txn(t, "2020-01-11", "x", "y", tc.amount)}, "a", "", testToday)
		require.Len(t, entries, 1)
		assert.Equal(t, tc.want, entries[0].Amount, "amount %s", tc.amount)
	}
}

func TestTransform_FutureDateClamped(t *testing.T) {
	entries := Transform([]model.BankTransaction{txn(t, "2021-03-05", "x", "y", "1")}, "a", "", testToday)
	require.Len(t, entries, 1)
	assert.Equal(t, "2021-03-01", entries[0].Date)
}

func TestTransform_TodayNotClamped(t *testing.T) {
	// Same calendar date but later time of day than the transaction: only
	// calendar dates are compared.
	tx := model.BankTransaction{
		Date:   time.Date(2021, 3, 1, 23, 59, 0, 0, time.UTC),
		Amount: mustDecimal(t, "1"),
	}
	entries := Transform([]model.BankTransaction{tx}, "a", "", testToday)
	require.Len(t, entries, 1)
	assert.Equal(t, "2021-03-01", entries[0].Date)
}

func TestTransform_PastDateUnchanged(t *testing.T) {
	entries := Transform([]model.BankTransaction{txn(t, "2019-12-31", "x", "y", "1")}, "a", "", testToday)
	require.Len(t, entries, 1)
	assert.Equal(t, "2019-12-31", entries[0].Date)
}

func TestTransform_DuplicateOccurrences(t *testing.T) {
	txns := []model.BankTransaction{
		txn(t, "2020-06-13", "foo", "bar", "-42.24"),
		txn(t, "2020-06-13", "foo", "bar", "-42.24"),
	}

	entries := Transform(txns, "abcdef", "", testToday)
	require.Len(t, entries, 2)
	assert.Equal(t, "YNAB:-42240:2020-06-13:1", entries[0].ImportID)
	assert.Equal(t, "YNAB:-42240:2020-06-13:2", entries[1].ImportID)
}

func TestTransform_DistinctPairsRestartCount(t *testing.T) {
	txns := []model.BankTransaction{
		txn(t, "2020-06-13", "a", "p", "-42.24"),
		txn(t, "2020-06-13", "b", "p", "-9.99"),
		txn(t, "2020-06-14", "c", "p", "-42.24"),
	}

	entries := Transform(txns, "abcdef", "", testToday)
	require.Len(t, entries, 3)
	assert.Equal(t, "YNAB:-42240:2020-06-13:1", entries[0].ImportID)
	assert.Equal(t, "YNAB:-9990:2020-06-13:1", entries[1].ImportID)
	assert.Equal(t, "YNAB:-42240:2020-06-14:1", entries[2].ImportID)
}

func TestTransform_NoFlagColorOmitted(t *testing.T) {
	entries := Transform([]model.BankTransaction{txn(t, "2020-01-11", "x", "y", "1")}, "a", "", testToday)
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].FlagColor)
}

func TestTransform_PreservesOrder(t *testing.T) {
	txns := []model.BankTransaction{
		txn(t, "2020-03-01", "late", "p", "1"),
		txn(t, "2020-01-01", "early", "p", "2"),
	}

	entries := Transform(txns, "a", "", testToday)
	require.Len(t, entries, 2)
	assert.Equal(t, "late", entries[0].PayeeName)
	assert.Equal(t, "early", entries[1].PayeeName)
}

func TestFormatImportID(t *testing.T) {
	assert.Equal(t, "YNAB:-42240:2020-06-13:1", FormatImportID(-42240, "2020-06-13", 1))
}

func TestParseImportID(t *testing.T) {
	amount, date, occurrence, err := ParseImportID("YNAB:-42240:2020-06-13:2")
	require.NoError(t, err)
	assert.Equal(t, int64(-42240), amount)
	assert.Equal(t, "2020-06-13", date)
	assert.Equal(t, 2, occurrence)
}

func TestParseImportID_Invalid(t *testing.T) {
	_, _, _, err := ParseImportID("MMEX:1:2020-06-13:1")
	assert.Error(t, err)

	_, _, _, err = ParseImportID("YNAB:1:2020-06-13")
	assert.Error(t, err)
}
