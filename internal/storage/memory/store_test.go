package memory

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/banking-session-client/internal/models"
)

func TestCommitNewestGenerationOnly(t *testing.T) {
	t.Parallel()
	s := NewViewStore()

	first := s.Begin("1")
	second := s.Begin("1")
	require.Greater(t, second, first)

	require.True(t, s.Commit("1", second, models.Snapshot{View: models.AccountView{Balance: "new"}}))
	require.False(t, s.Commit("1", first, models.Snapshot{View: models.AccountView{Balance: "stale"}}))

	got, ok := s.Get("1")
	require.True(t, ok)
	require.Equal(t, "new", got.View.Balance)
}

func TestGenerationsArePerAccount(t *testing.T) {
	t.Parallel()
	s := NewViewStore()

	a := s.Begin("a")
	s.Begin("b")
	require.True(t, s.Commit("a", a, models.Snapshot{}))

	_, ok := s.Get("b")
	require.False(t, ok)
}

func TestGetReturnsCopy(t *testing.T) {
	t.Parallel()
	s := NewViewStore()

	g := s.Begin("1")
	txs := []models.Transaction{{UUID: "x"}}
	require.True(t, s.Commit("1", g, models.Snapshot{Transactions: txs}))
	txs[0].UUID = "changed"

	got, _ := s.Get("1")
	require.Equal(t, "x", got.Transactions[0].UUID)
	got.Transactions[0].UUID = "again"

	again, _ := s.Get("1")
	require.Equal(t, "x", again.Transactions[0].UUID)
}
