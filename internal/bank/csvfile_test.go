package bank

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIBAN = "DE12500105170123456789"

func TestCSVClient_Accounts(t *testing.T) {
	c := NewCSVClient("testdata/ing_export.csv")

	accounts, err := c.Accounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, testIBAN, accounts[0].IBAN)
	assert.Equal(t, "Girokonto", accounts[0].Name)
}

func TestCSVClient_SelectAccount(t *testing.T) {
	c := NewCSVClient("testdata/ing_export.csv")

	account, err := c.SelectAccount(context.Background(), testIBAN)
	require.NoError(t, err)
	assert.Equal(t, testIBAN, account.IBAN)
}

func TestCSVClient_SelectAccount_NotFound(t *testing.T) {
	c := NewCSVClient("testdata/ing_export.csv")

	_, err := c.SelectAccount(context.Background(), "DE00000000000000000000")
	var notFound *AccountNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Len(t, notFound.Accounts, 1)
	assert.Contains(t, notFound.Error(), testIBAN)
}

func TestCSVClient_Transactions(t *testing.T) {
	c := NewCSVClient("testdata/ing_export.csv")

	txns, err := c.Transactions(context.Background(), Account{IBAN: testIBAN}, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, txns, 3)

	// Exports list newest first, the client returns oldest first.
	assert.Equal(t, "foo", txns[0].ApplicantName)
	assert.Equal(t, "42.24", txns[0].Amount.StringFixed(2))
	assert.Equal(t, "2020-01-11", txns[0].Date.Format("2006-01-02"))

	assert.Equal(t, "PayPal (Europe) S.a.r.l. et Cie, S.C.A.", txns[1].ApplicantName)
	assert.Equal(t, "-42.24", txns[1].Amount.StringFixed(2))

	assert.Equal(t, "bar", txns[2].ApplicantName)
	assert.Equal(t, "-1337.00", txns[2].Amount.StringFixed(2))
	assert.Equal(t, "baz", txns[2].Purpose)
}

func TestCSVClient_Transactions_SinceFilters(t *testing.T) {
	c := NewCSVClient("testdata/ing_export.csv")

	txns, err := c.Transactions(context.Background(), Account{IBAN: testIBAN}, time.Date(2020, 7, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "bar", txns[0].ApplicantName)
}

func TestCSVClient_Transactions_NoHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.csv")
	require.NoError(t, os.WriteFile(path, []byte("just;some;data\n"), 0o644))

	c := NewCSVClient(path)
	_, err := c.Transactions(context.Background(), Account{}, time.Time{})
	assert.Error(t, err)
}

func TestCSVClient_Transactions_MissingFile(t *testing.T) {
	c := NewCSVClient(filepath.Join(t.TempDir(), "missing.csv"))
	_, err := c.Transactions(context.Background(), Account{}, time.Time{})
	assert.Error(t, err)
}

func TestParseINGAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"-1.337,00", "-1337.00"},
		{"42,24", "42.24"},
		{"1.234.567,89", "1234567.89"},
		{"0,01", "0.01"},
	}
	for _, tc := range cases {
		got, err := parseINGAmount(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got.StringFixed(2), tc.in)
	}

	_, err := parseINGAmount("NOTANUMBER")
	assert.Error(t, err)
}
