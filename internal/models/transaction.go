package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType tells deposits and withdrawals apart.
type TransactionType string

const (
	Deposit    TransactionType = "D"
	Withdrawal TransactionType = "W"
)

// ParseTransactionType maps the service's one-letter code. Only "W" is a
// withdrawal; every other code is displayed as a deposit.
func ParseTransactionType(code string) TransactionType {
	if code == string(Withdrawal) {
		return Withdrawal
	}
	return Deposit
}

// Transaction is one booked movement on an account. Values are never
// modified after they are built from a service or demo record.
type Transaction struct {
	UUID      string          `json:"uuid"`
	Text      string          `json:"text"`
	Timestamp time.Time       `json:"timestamp"`
	Amount    decimal.Decimal `json:"amount"`
	Type      TransactionType `json:"type"`
}

// DisplayAmount renders the amount the way the transaction table shows it:
// withdrawals carry a leading minus.
func (t Transaction) DisplayAmount() string {
	if t.Type == Withdrawal {
		return "-" + t.Amount.String()
	}
	return t.Amount.String()
}

// ShortID is the first eight characters of the UUID.
func (t Transaction) ShortID() string {
	if len(t.UUID) <= 8 {
		return t.UUID
	}
	return t.UUID[:8]
}
