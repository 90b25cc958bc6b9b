package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/banking-session-client/internal/interfaces"
	"github.com/sheikh-saqib/banking-session-client/internal/models"
)

const maxErrorBody = 4 << 10

// AccountClient talks to the remote account service over HTTP/JSON.
type AccountClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewAccountClient builds a client for baseURL. A zero timeout means the
// client never gives up on its own; callers bound calls through ctx.
func NewAccountClient(baseURL string, timeout time.Duration, logger *zap.Logger) *AccountClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *AccountClient) GetAccount(ctx context.Context, accountNumber string) (models.AccountPayload, error) {
	var out *models.AccountPayload
	err := c.do(ctx, "get account", http.MethodGet, "/api/accounts/"+url.PathEscape(accountNumber), nil, func(body io.Reader) error {
		if err := json.NewDecoder(body).Decode(&out); err != nil {
			return err
		}
		if out == nil {
			return errors.New("account payload is not an object")
		}
		return nil
	})
	if err != nil {
		return models.AccountPayload{}, err
	}
	return *out, nil
}

func (c *AccountClient) Deposit(ctx context.Context, payload models.MutationPayload) error {
	return c.do(ctx, "deposit", http.MethodPost, "/api/accounts/deposit", payload, nil)
}

func (c *AccountClient) Withdraw(ctx context.Context, payload models.MutationPayload) error {
	return c.do(ctx, "withdraw", http.MethodPost, "/api/accounts/withdraw", payload, nil)
}

// GetUser returns the user record untyped; numbers are kept as json.Number
// so long account numbers survive intact.
func (c *AccountClient) GetUser(ctx context.Context, username string) (models.SessionRecord, error) {
	var out models.SessionRecord
	err := c.do(ctx, "get user", http.MethodGet, "/api/users/"+url.PathEscape(username), nil, func(body io.Reader) error {
		dec := json.NewDecoder(body)
		dec.UseNumber()
		if err := dec.Decode(&out); err != nil {
			return err
		}
		if out == nil {
			return errors.New("user record is not an object")
		}
		return nil
	})
	return out, err
}

func (c *AccountClient) CreateUser(ctx context.Context, req models.CreateUserRequest) error {
	return c.do(ctx, "create user", http.MethodPost, "/api/users", req, nil)
}

func (c *AccountClient) CreateAccount(ctx context.Context, req models.CreateAccountRequest) error {
	return c.do(ctx, "create account", http.MethodPost, "/api/accounts", req, nil)
}

func (c *AccountClient) do(ctx context.Context, op, method, path string, in any, decode func(io.Reader) error) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("calling account service",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("account service unreachable",
			zap.String("op", op),
			zap.String("request_id", requestID),
			zap.Error(err))
		return &models.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Error("account service returned non-2xx status",
			zap.String("op", op),
			zap.String("request_id", requestID),
			zap.Int("status_code", resp.StatusCode),
			zap.String("response", string(raw)))
		return &models.HTTPStatusError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if decode == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := decode(resp.Body); err != nil {
		c.logger.Error("failed to decode account service response",
			zap.String("op", op),
			zap.String("request_id", requestID),
			zap.Error(err))
		return &models.ParseError{Op: op, Err: err}
	}
	return nil
}

var _ interfaces.AccountService = (*AccountClient)(nil)
