package ynab

// Transaction is one entry in the create-transactions payload, shaped the
// way the YNAB v1 API expects it. Amounts are milliunits (1/1000 of the
// currency unit), debits negative.
type Transaction struct {
	AccountID string `json:"account_id" yaml:"account_id"`
	Date      string `json:"date" yaml:"date"`
	Amount    int64  `json:"amount" yaml:"amount"`
	PayeeName string `json:"payee_name" yaml:"payee_name"`
	Cleared   string `json:"cleared" yaml:"cleared"`
	Memo      string `json:"memo" yaml:"memo"`
	FlagColor string `json:"flag_color,omitempty" yaml:"flag_color,omitempty"`
	ImportID  string `json:"import_id" yaml:"import_id"`
}

type transactionsPayload struct {
	Transactions []Transaction `json:"transactions"`
}

type transactionsResponse struct {
	Data struct {
		TransactionIDs []string `json:"transaction_ids"`
	} `json:"data"`
}

type accountTransactionsResponse struct {
	Data struct {
		Transactions []struct {
			Date string `json:"date"`
		} `json:"transactions"`
	} `json:"data"`
}

type errorResponse struct {
	Error struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Detail string `json:"detail"`
	} `json:"error"`
}
