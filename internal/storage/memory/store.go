package memory

import (
	"sync" // standard Go package for concurrency primitives like Mutex

	interfaces "github.com/sheikh-saqib/banking-session-client/internal/interfaces"
	"github.com/sheikh-saqib/banking-session-client/internal/models"
)

// ViewStore is the in-memory, session-scoped implementation of
// interfaces.ViewStore. It keeps the latest committed snapshot per account
// and fences out responses of fetches that were overtaken by a newer one.
type ViewStore struct {
	mu          sync.Mutex                 // protects every map below
	generations map[string]uint64          // newest generation handed out per account
	snapshots   map[string]models.Snapshot // latest committed snapshot per account
}

// NewViewStore creates and returns an empty ViewStore.
func NewViewStore() *ViewStore {
	return &ViewStore{
		generations: make(map[string]uint64),
		snapshots:   make(map[string]models.Snapshot),
	}
}

// Begin registers a new fetch for accountNumber and returns its generation.
// Any fetch that began earlier can no longer commit.
func (m *ViewStore) Begin(accountNumber string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.generations[accountNumber]++
	return m.generations[accountNumber]
}

// Commit stores snap if generation is still the newest for the account.
// It reports false when the write was dropped as stale.
func (m *ViewStore) Commit(accountNumber string, generation uint64, snap models.Snapshot) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if generation != m.generations[accountNumber] {
		return false
	}
	m.snapshots[accountNumber] = cloneSnapshot(snap)
	return true
}

// Get returns a copy of the latest committed snapshot for accountNumber.
func (m *ViewStore) Get(accountNumber string) (models.Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap, ok := m.snapshots[accountNumber]
	if !ok {
		return models.Snapshot{}, false
	}
	return cloneSnapshot(snap), true
}

// cloneSnapshot copies the transaction slice so callers can't modify
// internal state.
func cloneSnapshot(s models.Snapshot) models.Snapshot {
	if s.Transactions != nil {
		copied := make([]models.Transaction, len(s.Transactions))
		copy(copied, s.Transactions)
		s.Transactions = copied
	}
	return s
}

// Compile-time check: ensure ViewStore implements the ViewStore interface
var _ interfaces.ViewStore = (*ViewStore)(nil)
