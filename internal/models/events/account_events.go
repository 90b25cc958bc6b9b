package events

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// DefaultTopic receives every account event unless configured otherwise.
const DefaultTopic = "account_events"

const (
	TypeMutationCompleted     = "mutation_completed"
	TypeSessionEstablished    = "session_established"
	TypeRegistrationCompleted = "registration_completed"
)

type MutationCompleted struct {
	EventID       string          `json:"event_id"`
	Type          string          `json:"type"`
	Kind          string          `json:"kind"`
	AccountNumber string          `json:"account_number"`
	Amount        decimal.Decimal `json:"amount"`
	Success       bool            `json:"success"`
	Status        int             `json:"status,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

type SessionEstablished struct {
	EventID       string    `json:"event_id"`
	Type          string    `json:"type"`
	Username      string    `json:"username"`
	AccountNumber string    `json:"account_number"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type RegistrationCompleted struct {
	EventID       string    `json:"event_id"`
	Type          string    `json:"type"`
	Username      string    `json:"username"`
	AccountNumber string    `json:"account_number"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewID returns a time-ordered event id.
func NewID(at time.Time) string {
	return ulid.MustNew(ulid.Timestamp(at), rand.Reader).String()
}
