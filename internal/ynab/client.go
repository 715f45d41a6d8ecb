// Package ynab talks to the YNAB v1 API and transforms bank transactions
// into the shape it accepts.
package ynab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultBaseURL is the YNAB v1 API root.
const DefaultBaseURL = "https://api.youneedabudget.com/v1"

// Error is a rejection reported by the YNAB API. The Detail field carries
// the service's structured error message.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("ynab: %s (status %d)", e.Detail, e.StatusCode)
}

// Client accesses a single budget and account on the YNAB API.
type Client struct {
	// BaseURL and HTTPClient may be overridden before first use.
	BaseURL    string
	HTTPClient *http.Client

	accessToken string
	accountID   string
	budgetID    string
}

// NewClient creates a Client for the given budget and account.
func NewClient(accessToken, accountID, budgetID string) *Client {
	return &Client{
		BaseURL:     DefaultBaseURL,
		HTTPClient:  &http.Client{Timeout: 30 * time.Second},
		accessToken: accessToken,
		accountID:   accountID,
		budgetID:    budgetID,
	}
}

// ImportTransactions submits the whole batch in one request and returns the
// IDs of the transactions YNAB created. A non-success status is returned as
// an *Error carrying the service's error detail.
func (c *Client) ImportTransactions(ctx context.Context, txns []Transaction) ([]string, error) {
	body, err := json.Marshal(transactionsPayload{Transactions: txns})
	if err != nil {
		return nil, fmt.Errorf("encoding transactions: %w", err)
	}

	url := fmt.Sprintf("%s/budgets/%s/transactions", c.BaseURL, c.budgetID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("posting transactions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, decodeError(resp)
	}

	var result transactionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return result.Data.TransactionIDs, nil
}

// LatestTransactionDate returns the booking date of the most recent
// transaction on the configured account, or ok=false when the account has
// none. It backs the cursor strategy that trusts the ledger instead of a
// local state file.
func (c *Client) LatestTransactionDate(ctx context.Context) (time.Time, bool, error) {
	url := fmt.Sprintf("%s/budgets/%s/accounts/%s/transactions", c.BaseURL, c.budgetID, c.accountID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("fetching transactions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return time.Time{}, false, decodeError(resp)
	}

	var result accountTransactionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return time.Time{}, false, fmt.Errorf("decoding response: %w", err)
	}

	var latest time.Time
	found := false
	for _, tx := range result.Data.Transactions {
		date, err := time.Parse(dateFormat, tx.Date)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("parsing transaction date %q: %w", tx.Date, err)
		}
		if !found || date.After(latest) {
			latest = date
			found = true
		}
	}
	return latest, found, nil
}

func decodeError(resp *http.Response) error {
	detail := resp.Status
	var errResp errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error.Detail != "" {
		detail = errResp.Error.Detail
	}
	return &Error{StatusCode: resp.StatusCode, Detail: detail}
}
