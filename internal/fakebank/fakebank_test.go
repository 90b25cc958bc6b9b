package fakebank

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUserReadsDuringAccountCreation(t *testing.T) {
	t.Parallel()
	s := New(t)
	s.AddUser("alice", map[string]any{"username": "alice"})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			resp, err := http.Get(s.URL + "/api/users/alice")
			if err == nil {
				resp.Body.Close()
			}
		}()
		go func(i int) {
			defer wg.Done()
			body, _ := json.Marshal(map[string]any{
				"username":      "alice",
				"accountNumber": fmt.Sprintf("10000000%02d", i),
				"cashBalance":   "0",
			})
			resp, err := http.Post(s.URL+"/api/accounts", "application/json", bytes.NewReader(body))
			if err == nil {
				resp.Body.Close()
			}
		}(i)
	}
	wg.Wait()

	resp, err := http.Get(s.URL + "/api/users/alice")
	require.NoError(t, err)
	defer resp.Body.Close()

	var rec map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rec))
	require.Contains(t, rec, "bankAccount")
	require.Equal(t, 20, s.Calls(RouteCreateAccount))
}
