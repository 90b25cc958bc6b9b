// Package fakebank is an in-process stand-in for the remote account service,
// used by tests. It serves the same routes, keeps balances in memory, counts
// calls per route and can be told to fail.
package fakebank

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	RouteGetAccount    = "GET /api/accounts/{accountNumber}"
	RouteDeposit       = "POST /api/accounts/deposit"
	RouteWithdraw      = "POST /api/accounts/withdraw"
	RouteGetUser       = "GET /api/users/{username}"
	RouteCreateUser    = "POST /api/users"
	RouteCreateAccount = "POST /api/accounts"
)

type Tx struct {
	UUID      string
	Text      string
	Timestamp string
	Amount    string
	Type      string
}

type account struct {
	number      string
	description string
	balance     decimal.Decimal
	txs         []Tx
}

type failure struct {
	status int
	body   string
}

type Server struct {
	*httptest.Server

	mu        sync.Mutex
	accounts  map[string]*account
	users     map[string]map[string]any
	calls     map[string]int
	bodies    map[string][]map[string]any
	failures  map[string]failure
	raw       map[string]string
	omitBal   bool
	useSaldo  bool
	clockFunc func() time.Time
}

// New starts the fake service and stops it when the test ends.
func New(t testing.TB) *Server {
	s := &Server{
		accounts:  make(map[string]*account),
		users:     make(map[string]map[string]any),
		calls:     make(map[string]int),
		bodies:    make(map[string][]map[string]any),
		failures:  make(map[string]failure),
		raw:       make(map[string]string),
		clockFunc: time.Now,
	}

	r := chi.NewRouter()
	r.Get("/api/accounts/{accountNumber}", s.track(RouteGetAccount, s.getAccount))
	r.Post("/api/accounts/deposit", s.track(RouteDeposit, s.mutate(false)))
	r.Post("/api/accounts/withdraw", s.track(RouteWithdraw, s.mutate(true)))
	r.Get("/api/users/{username}", s.track(RouteGetUser, s.getUser))
	r.Post("/api/users", s.track(RouteCreateUser, s.createUser))
	r.Post("/api/accounts", s.track(RouteCreateAccount, s.createAccount))

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

func (s *Server) AddAccount(number, description, balance string, txs ...Tx) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[number] = &account{
		number:      number,
		description: description,
		balance:     decimal.RequireFromString(balance),
		txs:         append([]Tx(nil), txs...),
	}
}

func (s *Server) AddUser(username string, record map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = record
}

// FailWith makes route answer status with body until cleared by Recover.
func (s *Server) FailWith(route string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = failure{status: status, body: body}
}

func (s *Server) Recover(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, route)
	delete(s.raw, route)
}

// RespondRaw makes route answer 200 with body verbatim.
func (s *Server) RespondRaw(route, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw[route] = body
}

// SendSaldo moves the balance from "balance" to the legacy "saldo" field.
func (s *Server) SendSaldo() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.useSaldo = true
}

// OmitBalance drops both balance fields from account responses.
func (s *Server) OmitBalance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.omitBal = true
}

func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

// Bodies returns the decoded JSON bodies received on route, oldest first.
func (s *Server) Bodies(route string) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]any(nil), s.bodies[route]...)
}

func (s *Server) Balance(number string) (decimal.Decimal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[number]
	if !ok {
		return decimal.Zero, false
	}
	return a.balance, true
}

func (s *Server) HasUser(username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[username]
	return ok
}

func (s *Server) track(route string, next func(http.ResponseWriter, *http.Request, map[string]any)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&body)
		}

		s.mu.Lock()
		s.calls[route]++
		if body != nil {
			s.bodies[route] = append(s.bodies[route], body)
		}
		f, failing := s.failures[route]
		raw, rawSet := s.raw[route]
		s.mu.Unlock()

		if failing {
			http.Error(w, f.body, f.status)
			return
		}
		if rawSet {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(raw))
			return
		}
		next(w, r, body)
	}
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request, _ map[string]any) {
	number := chi.URLParam(r, "accountNumber")

	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[number]
	if !ok {
		http.Error(w, "account not found", http.StatusNotFound)
		return
	}

	txs := make([]map[string]any, 0, len(a.txs))
	for _, tx := range a.txs {
		txs = append(txs, map[string]any{
			"uuid":                 tx.UUID,
			"text":                 tx.Text,
			"transactionTimeStamp": tx.Timestamp,
			"amount":               tx.Amount,
			"transactionType":      tx.Type,
		})
	}
	resp := map[string]any{
		"accountNumber": a.number,
		"description":   a.description,
		"transactions":  txs,
	}
	switch {
	case s.omitBal:
	case s.useSaldo:
		resp["saldo"] = a.balance.StringFixed(2)
	default:
		resp["balance"] = a.balance.StringFixed(2)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) mutate(withdraw bool) func(http.ResponseWriter, *http.Request, map[string]any) {
	return func(w http.ResponseWriter, r *http.Request, body map[string]any) {
		number, _ := body["accountNumber"].(string)
		amount, err := decimal.NewFromString(toString(body["amount"]))
		if err != nil || !amount.IsPositive() {
			http.Error(w, "invalid amount", http.StatusBadRequest)
			return
		}
		text, _ := body["text"].(string)

		s.mu.Lock()
		defer s.mu.Unlock()
		a, ok := s.accounts[number]
		if !ok {
			http.Error(w, "account not found", http.StatusNotFound)
			return
		}
		kind := "D"
		if withdraw {
			if a.balance.LessThan(amount) {
				http.Error(w, "insufficient balance", http.StatusConflict)
				return
			}
			kind = "W"
			a.balance = a.balance.Sub(amount)
		} else {
			a.balance = a.balance.Add(amount)
		}
		a.txs = append(a.txs, Tx{
			UUID:      uuid.NewString(),
			Text:      text,
			Timestamp: s.clockFunc().UTC().Format(time.RFC3339Nano),
			Amount:    amount.String(),
			Type:      kind,
		})
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	}
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request, _ map[string]any) {
	username := chi.URLParam(r, "username")

	s.mu.Lock()
	stored, ok := s.users[username]
	rec := make(map[string]any, len(stored))
	for k, v := range stored {
		rec[k] = v
	}
	s.mu.Unlock()
	if !ok {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) createUser(w http.ResponseWriter, _ *http.Request, body map[string]any) {
	username, _ := body["username"].(string)
	if username == "" {
		http.Error(w, "username required", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[username]; exists {
		http.Error(w, "user exists", http.StatusConflict)
		return
	}
	s.users[username] = map[string]any{"username": username, "name": body["name"]}
	writeJSON(w, http.StatusCreated, s.users[username])
}

func (s *Server) createAccount(w http.ResponseWriter, _ *http.Request, body map[string]any) {
	number, _ := body["accountNumber"].(string)
	username, _ := body["username"].(string)
	balance, err := decimal.NewFromString(toString(body["cashBalance"]))
	if number == "" || err != nil {
		http.Error(w, "invalid account", http.StatusBadRequest)
		return
	}
	description, _ := body["description"].(string)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[number] = &account{number: number, description: description, balance: balance}
	if u, ok := s.users[username]; ok {
		u["bankAccount"] = map[string]any{"accountNumber": number}
	}
	writeJSON(w, http.StatusCreated, map[string]any{"accountNumber": number})
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return decimal.NewFromFloat(x).String()
	default:
		return ""
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
