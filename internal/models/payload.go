package models

import "github.com/shopspring/decimal"

// AccountPayload is GET /api/accounts/{accountNumber} as sent on the wire.
type AccountPayload struct {
	AccountNumber FlexString           `json:"accountNumber"`
	Description   string               `json:"description"`
	Balance       FlexString           `json:"balance"`
	Saldo         FlexString           `json:"saldo"`
	Transactions  []TransactionPayload `json:"transactions"`
}

type TransactionPayload struct {
	UUID                 string          `json:"uuid"`
	Text                 string          `json:"text"`
	TransactionTimeStamp string          `json:"transactionTimeStamp"`
	Amount               decimal.Decimal `json:"amount"`
	TransactionType      string          `json:"transactionType"`
}

// MutationPayload is the body of POST /api/accounts/{deposit,withdraw}. The
// identifier is sent under both keys for backend tolerance.
type MutationPayload struct {
	AccountID     string          `json:"accountId"`
	AccountNumber string          `json:"accountNumber"`
	Text          string          `json:"text"`
	Amount        decimal.Decimal `json:"amount"`
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
}

type CreateAccountRequest struct {
	Username      string          `json:"username"`
	AccountNumber string          `json:"accountNumber"`
	Description   string          `json:"description"`
	CashBalance   decimal.Decimal `json:"cashBalance"`
}
