// Package mutation drives the submit-then-refresh workflow shared by deposits
// and withdrawals.
package mutation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/message"

	"github.com/sheikh-saqib/banking-session-client/internal/i18n"
	interfaces "github.com/sheikh-saqib/banking-session-client/internal/interfaces"
	"github.com/sheikh-saqib/banking-session-client/internal/models"
	"github.com/sheikh-saqib/banking-session-client/internal/models/events"
)

// Refresher re-runs a full account fetch.
type Refresher interface {
	Refresh(ctx context.Context, accountNumber string) models.Snapshot
}

// Coordinator submits mutations and refreshes the account view afterwards.
// Submits on the same account are serialized so each refresh observes the
// outcome of its own mutation.
type Coordinator struct {
	svc       interfaces.AccountService
	refresher Refresher
	publisher interfaces.EventPublisher
	topic     string
	printer   *message.Printer
	logger    *zap.Logger
	now       func() time.Time

	muMap map[string]*sync.Mutex // one lock per account
	mapMu sync.Mutex             // protects muMap
}

// Option customizes a Coordinator.
type Option func(*Coordinator)

// WithTopic sets the topic MutationCompleted events are published to.
func WithTopic(topic string) Option {
	return func(c *Coordinator) { c.topic = topic }
}

// NewCoordinator builds a Coordinator. publisher may be nil, in which case no
// events are emitted.
func NewCoordinator(svc interfaces.AccountService, refresher Refresher, publisher interfaces.EventPublisher, printer *message.Printer, logger *zap.Logger, opts ...Option) *Coordinator {
	if printer == nil {
		printer = i18n.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Coordinator{
		svc:       svc,
		refresher: refresher,
		publisher: publisher,
		topic:     events.DefaultTopic,
		printer:   printer,
		logger:    logger,
		now:       time.Now,
		muMap:     make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Coordinator) accountLock(accountNumber string) *sync.Mutex {
	c.mapMu.Lock()
	defer c.mapMu.Unlock()

	if _, exists := c.muMap[accountNumber]; !exists {
		c.muMap[accountNumber] = &sync.Mutex{}
	}
	return c.muMap[accountNumber]
}

// Submit sends one deposit or withdrawal for accountNumber. Failures come back
// as an unsuccessful result, never as a panic or error return. On success the
// account is refreshed before Submit returns.
func (c *Coordinator) Submit(ctx context.Context, kind models.MutationKind, req models.MutationRequest, accountNumber string) models.MutationResult {
	mu := c.accountLock(accountNumber)
	mu.Lock()
	defer mu.Unlock()

	payload := models.MutationPayload{
		AccountID:     accountNumber,
		AccountNumber: accountNumber,
		Text:          req.Text,
		Amount:        req.Amount,
	}

	var err error
	switch kind {
	case models.KindDeposit:
		err = c.svc.Deposit(ctx, payload)
	case models.KindWithdrawal:
		err = c.svc.Withdraw(ctx, payload)
	default:
		err = &models.ValidationError{Field: "kind", Reason: "unknown mutation " + string(kind)}
	}

	var result models.MutationResult
	if err != nil {
		result = c.failure(kind, err)
		c.logger.Error("mutation failed",
			zap.String("kind", string(kind)),
			zap.String("account_number", accountNumber),
			zap.Int("status_code", result.Status),
			zap.Error(err))
	} else {
		c.refresher.Refresh(ctx, accountNumber)
		result = models.MutationResult{Success: true, Message: c.confirmation(kind)}
		c.logger.Info("mutation completed",
			zap.String("kind", string(kind)),
			zap.String("account_number", accountNumber),
			zap.String("amount", req.Amount.String()))
	}

	c.publish(ctx, events.MutationCompleted{
		EventID:       events.NewID(c.now()),
		Type:          events.TypeMutationCompleted,
		Kind:          string(kind),
		AccountNumber: accountNumber,
		Amount:        req.Amount,
		Success:       result.Success,
		Status:        result.Status,
		OccurredAt:    c.now().UTC(),
	})
	return result
}

func (c *Coordinator) failure(kind models.MutationKind, err error) models.MutationResult {
	result := models.MutationResult{
		Status: models.StatusOf(err),
		Err:    &models.MutationFailedError{Kind: kind, Err: err},
	}

	var se *models.HTTPStatusError
	switch {
	case errors.As(err, &se) && kind == models.KindWithdrawal:
		result.Message = c.printer.Sprintf(i18n.MsgWithdrawalStatus, se.Status)
	case errors.As(err, &se):
		result.Message = c.printer.Sprintf(i18n.MsgDepositStatus, se.Status)
	case kind == models.KindWithdrawal:
		result.Message = c.printer.Sprintf(i18n.MsgWithdrawNoService)
	default:
		result.Message = c.printer.Sprintf(i18n.MsgDepositNoService)
	}
	return result
}

func (c *Coordinator) confirmation(kind models.MutationKind) string {
	if kind == models.KindWithdrawal {
		return c.printer.Sprintf(i18n.MsgWithdrawalOK)
	}
	return c.printer.Sprintf(i18n.MsgDepositOK)
}

// publish is best effort; a failed publish never changes the result.
func (c *Coordinator) publish(ctx context.Context, event events.MutationCompleted) {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.Publish(ctx, c.topic, event); err != nil {
		c.logger.Warn("failed to publish mutation event",
			zap.String("event_id", event.EventID),
			zap.Error(err))
	}
}

// ParseAmount validates the amount typed into a deposit or withdrawal form.
// It must be numeric and greater than zero.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, &models.ValidationError{Field: "amount", Reason: "required"}
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &models.ValidationError{Field: "amount", Reason: "not a number"}
	}
	if amount.Cmp(decimal.Zero) <= 0 {
		return decimal.Zero, &models.ValidationError{Field: "amount", Reason: "must be greater than 0"}
	}
	return amount, nil
}
