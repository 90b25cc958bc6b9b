package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/sheikh-saqib/banking-session-client/internal/fakebank"
	"github.com/sheikh-saqib/banking-session-client/internal/models"
)

func newClient(t *testing.T) (*AccountClient, *fakebank.Server) {
	t.Helper()
	bank := fakebank.New(t)
	return NewAccountClient(bank.URL+"/", 0, zaptest.NewLogger(t)), bank
}

func TestGetAccount(t *testing.T) {
	t.Parallel()
	c, bank := newClient(t)
	bank.AddAccount("8920", "Girokonto", "1500", fakebank.Tx{
		UUID: "u-1", Text: "Salary", Timestamp: "2024-03-01T10:00:00Z", Amount: "2000.50", Type: "D",
	})

	acc, err := c.GetAccount(context.Background(), "8920")
	require.NoError(t, err)
	require.Equal(t, "8920", acc.AccountNumber.String())
	require.Equal(t, "1500.00", acc.Balance.String())
	require.Len(t, acc.Transactions, 1)
	require.True(t, decimal.RequireFromString("2000.5").Equal(acc.Transactions[0].Amount))
	require.Equal(t, 1, bank.Calls(fakebank.RouteGetAccount))
}

func TestGetAccountStatusError(t *testing.T) {
	t.Parallel()
	c, _ := newClient(t)

	_, err := c.GetAccount(context.Background(), "missing")
	var se *models.HTTPStatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, http.StatusNotFound, se.Status)
	require.Contains(t, se.Body, "account not found")
	require.Equal(t, http.StatusNotFound, models.StatusOf(err))
}

func TestGetAccountParseError(t *testing.T) {
	t.Parallel()
	c, bank := newClient(t)
	bank.RespondRaw(fakebank.RouteGetAccount, `{"accountNumber": "1", "transactions": "nope"}`)

	_, err := c.GetAccount(context.Background(), "1")
	var pe *models.ParseError
	require.ErrorAs(t, err, &pe)
}

func TestTransportError(t *testing.T) {
	t.Parallel()
	bank := fakebank.New(t)
	c := NewAccountClient(bank.URL, 0, zaptest.NewLogger(t))
	bank.Close()

	err := c.Deposit(context.Background(), models.MutationPayload{AccountNumber: "1", Amount: decimal.NewFromInt(1)})
	var te *models.TransportError
	require.ErrorAs(t, err, &te)
	require.Equal(t, "deposit", te.Op)
}

func TestMutationPayloadCarriesBothKeys(t *testing.T) {
	t.Parallel()
	c, bank := newClient(t)
	bank.AddAccount("42", "x", "10")

	err := c.Withdraw(context.Background(), models.MutationPayload{
		AccountID: "42", AccountNumber: "42", Text: "ATM", Amount: decimal.RequireFromString("2.5"),
	})
	require.NoError(t, err)

	bodies := bank.Bodies(fakebank.RouteWithdraw)
	require.Len(t, bodies, 1)
	require.Equal(t, "42", bodies[0]["accountId"])
	require.Equal(t, "42", bodies[0]["accountNumber"])
	require.Equal(t, "ATM", bodies[0]["text"])
	require.Equal(t, "2.5", bodies[0]["amount"])

	bal, _ := bank.Balance("42")
	require.Equal(t, "7.5", bal.String())
}

func TestGetUserKeepsNumbers(t *testing.T) {
	t.Parallel()
	c, bank := newClient(t)
	bank.AddUser("alice", map[string]any{"accountNumber": 12345678901234567})

	rec, err := c.GetUser(context.Background(), "alice")
	require.NoError(t, err)
	n, ok := rec["accountNumber"].(json.Number)
	require.True(t, ok)
	require.Equal(t, "12345678901234567", n.String())
}

func TestGetUserNotObject(t *testing.T) {
	t.Parallel()
	c, bank := newClient(t)
	bank.RespondRaw(fakebank.RouteGetUser, `null`)

	_, err := c.GetUser(context.Background(), "alice")
	var pe *models.ParseError
	require.True(t, errors.As(err, &pe))
}

func TestRegistrationCalls(t *testing.T) {
	t.Parallel()
	c, bank := newClient(t)

	require.NoError(t, c.CreateUser(context.Background(), models.CreateUserRequest{Username: "bob", Name: "Bob"}))
	require.NoError(t, c.CreateAccount(context.Background(), models.CreateAccountRequest{
		Username: "bob", AccountNumber: "1234567890", Description: "Girokonto", CashBalance: decimal.Zero,
	}))
	require.True(t, bank.HasUser("bob"))
	_, ok := bank.Balance("1234567890")
	require.True(t, ok)

	err := c.CreateUser(context.Background(), models.CreateUserRequest{Username: "bob", Name: "Bob"})
	require.Equal(t, http.StatusConflict, models.StatusOf(err))
}

func TestGetAccountNullBody(t *testing.T) {
	t.Parallel()
	c, bank := newClient(t)
	bank.RespondRaw(fakebank.RouteGetAccount, "null")

	_, err := c.GetAccount(context.Background(), "1")
	var pe *models.ParseError
	require.ErrorAs(t, err, &pe)
}
