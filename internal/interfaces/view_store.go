package interfaces

import "github.com/sheikh-saqib/banking-session-client/internal/models"

// ViewStore holds the latest snapshot per account for the current session.
// Begin hands out a generation; Commit only succeeds for the newest one.
type ViewStore interface {
	Begin(accountNumber string) uint64
	Commit(accountNumber string, generation uint64, snap models.Snapshot) bool
	Get(accountNumber string) (models.Snapshot, bool)
}
