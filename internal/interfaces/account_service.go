package interfaces

import (
	"context"

	"github.com/sheikh-saqib/banking-session-client/internal/models"
)

// AccountService is the remote account service as seen by the core.
// Implementations return *models.TransportError, *models.HTTPStatusError or
// *models.ParseError so callers can classify failures.
type AccountService interface {
	GetAccount(ctx context.Context, accountNumber string) (models.AccountPayload, error)
	Deposit(ctx context.Context, payload models.MutationPayload) error
	Withdraw(ctx context.Context, payload models.MutationPayload) error
	GetUser(ctx context.Context, username string) (models.SessionRecord, error)
	CreateUser(ctx context.Context, req models.CreateUserRequest) error
	CreateAccount(ctx context.Context, req models.CreateAccountRequest) error
}
