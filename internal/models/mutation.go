package models

import "github.com/shopspring/decimal"

// MutationKind selects the money-movement endpoint.
type MutationKind string

const (
	KindDeposit    MutationKind = "deposit"
	KindWithdrawal MutationKind = "withdraw"
)

// MutationRequest is the caller-supplied part of a deposit or withdrawal.
// Amount has already been validated by the caller.
type MutationRequest struct {
	Text   string
	Amount decimal.Decimal
}

// MutationResult is what a submit hands back to the form. Err keeps the
// underlying failure for logging; Status is the HTTP status when one was
// received.
type MutationResult struct {
	Success bool
	Message string
	Status  int
	Err     error
}
