// Package auth implements the sign-in and registration workflows that turn a
// remote user record into a session.
//
// The password check compares against one configured shared literal. It is a
// placeholder gate, not authentication.
package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/message"

	"github.com/sheikh-saqib/banking-session-client/internal/i18n"
	interfaces "github.com/sheikh-saqib/banking-session-client/internal/interfaces"
	"github.com/sheikh-saqib/banking-session-client/internal/models"
	"github.com/sheikh-saqib/banking-session-client/internal/models/events"
	"github.com/sheikh-saqib/banking-session-client/internal/resolver"
)

// Mode is the form the authenticator is currently showing.
type Mode int

const (
	LoginMode Mode = iota
	RegisterMode
)

func (m Mode) String() string {
	if m == RegisterMode {
		return "register"
	}
	return "login"
}

// Form holds the in-progress field values.
type Form struct {
	Username        string
	Password        string
	ConfirmPassword string
	FullName        string
}

// Status is the message line under the form. At most one field is set.
type Status struct {
	Error   string
	Success string
}

type Config struct {
	// Password is the shared literal every login is checked against.
	Password string
	// Topic receives SessionEstablished and RegistrationCompleted events.
	Topic string
}

var (
	accountNumberMin   = big.NewInt(1_000_000_000)
	accountNumberRange = big.NewInt(9_000_000_000)
)

// Authenticator is the state behind the login page. It is driven by a single
// caller and is not safe for concurrent use.
type Authenticator struct {
	svc       interfaces.AccountService
	cfg       Config
	publisher interfaces.EventPublisher
	printer   *message.Printer
	logger    *zap.Logger
	now       func() time.Time
	random    io.Reader

	mode   Mode
	Form   Form
	status Status
}

func NewAuthenticator(svc interfaces.AccountService, cfg Config, publisher interfaces.EventPublisher, printer *message.Printer, logger *zap.Logger) *Authenticator {
	if printer == nil {
		printer = i18n.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Topic == "" {
		cfg.Topic = events.DefaultTopic
	}
	return &Authenticator{
		svc:       svc,
		cfg:       cfg,
		publisher: publisher,
		printer:   printer,
		logger:    logger,
		now:       time.Now,
		random:    rand.Reader,
	}
}

func (a *Authenticator) Mode() Mode     { return a.mode }
func (a *Authenticator) Status() Status { return a.status }

// SetMode switches forms and clears every field and message.
func (a *Authenticator) SetMode(m Mode) {
	a.mode = m
	a.Form = Form{}
	a.status = Status{}
}

// Toggle flips between login and registration.
func (a *Authenticator) Toggle() {
	if a.mode == LoginMode {
		a.SetMode(RegisterMode)
		return
	}
	a.SetMode(LoginMode)
}

// Submit runs the workflow of the current mode. The session is only non-nil
// after a successful login.
func (a *Authenticator) Submit(ctx context.Context) (*models.Session, error) {
	if a.mode == RegisterMode {
		_, err := a.Register(ctx)
		return nil, err
	}
	s, err := a.Login(ctx)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Login checks the form, looks the user up and resolves its account number.
// It never falls back to made-up data.
func (a *Authenticator) Login(ctx context.Context) (models.Session, error) {
	a.status = Status{}
	username := strings.TrimSpace(a.Form.Username)

	if username == "" || a.Form.Password == "" {
		return models.Session{}, a.fail(models.ErrMissingFields, a.printer.Sprintf(i18n.MsgMissingFields))
	}
	if a.Form.Password != a.cfg.Password {
		return models.Session{}, a.fail(models.ErrInvalidCredentials, a.printer.Sprintf(i18n.MsgInvalidLogin))
	}

	rec, err := a.svc.GetUser(ctx, username)
	if err != nil {
		lookupErr := classify(err)
		a.logger.Error("user lookup failed",
			zap.String("username", username),
			zap.String("category", string(lookupErr.Category)),
			zap.Int("status_code", lookupErr.Status),
			zap.Error(err))
		return models.Session{}, a.fail(lookupErr, a.lookupMessage(lookupErr))
	}

	accountNumber, path, ok := resolver.LoginTime.Match(rec)
	if !ok {
		a.logger.Warn("user record has no account number", zap.String("username", username))
		return models.Session{}, a.fail(models.ErrNoAccountNumber, a.printer.Sprintf(i18n.MsgNoAccountForUser))
	}
	fullName, _ := resolver.FullName.Resolve(rec)

	session := models.Session{
		Username:      username,
		FullName:      fullName,
		AccountNumber: accountNumber,
	}
	a.Form = Form{}
	a.status = Status{Success: a.printer.Sprintf(i18n.MsgLoginOK)}
	a.logger.Info("user signed in",
		zap.String("username", username),
		zap.String("account_number", accountNumber),
		zap.String("path", path))

	now := a.now()
	a.publish(ctx, events.SessionEstablished{
		EventID:       events.NewID(now),
		Type:          events.TypeSessionEstablished,
		Username:      username,
		AccountNumber: accountNumber,
		OccurredAt:    now.UTC(),
	})
	return session, nil
}

// Register creates the user, then an account with a random 10-digit number.
// A user created before a failing second step is not rolled back.
func (a *Authenticator) Register(ctx context.Context) (string, error) {
	a.status = Status{}
	username := strings.TrimSpace(a.Form.Username)
	fullName := strings.TrimSpace(a.Form.FullName)

	if username == "" || fullName == "" {
		return "", a.fail(models.ErrMissingFields, a.printer.Sprintf(i18n.MsgMissingFields))
	}
	if a.Form.Password != a.Form.ConfirmPassword {
		return "", a.fail(models.ErrPasswordMismatch, a.printer.Sprintf(i18n.MsgPasswordMismatch))
	}

	if err := a.svc.CreateUser(ctx, models.CreateUserRequest{Username: username, Name: fullName}); err != nil {
		return "", a.registrationFailed(models.StepCreateUser, username, err)
	}

	accountNumber, err := a.newAccountNumber()
	if err != nil {
		return "", a.registrationFailed(models.StepCreateAccount, username, err)
	}
	err = a.svc.CreateAccount(ctx, models.CreateAccountRequest{
		Username:      username,
		AccountNumber: accountNumber,
		Description:   a.printer.Sprintf(i18n.MsgCheckingAccount),
		CashBalance:   decimal.Zero,
	})
	if err != nil {
		return "", a.registrationFailed(models.StepCreateAccount, username, err)
	}

	a.SetMode(LoginMode)
	a.status = Status{Success: a.printer.Sprintf(i18n.MsgRegisterOK)}
	a.logger.Info("user registered",
		zap.String("username", username),
		zap.String("account_number", accountNumber))

	now := a.now()
	a.publish(ctx, events.RegistrationCompleted{
		EventID:       events.NewID(now),
		Type:          events.TypeRegistrationCompleted,
		Username:      username,
		AccountNumber: accountNumber,
		OccurredAt:    now.UTC(),
	})
	return accountNumber, nil
}

func (a *Authenticator) newAccountNumber() (string, error) {
	n, err := rand.Int(a.random, accountNumberRange)
	if err != nil {
		return "", fmt.Errorf("generate account number: %w", err)
	}
	return n.Add(n, accountNumberMin).String(), nil
}

func (a *Authenticator) registrationFailed(step models.RegistrationStep, username string, err error) error {
	regErr := &models.RegistrationError{Step: step, Err: err}
	a.logger.Error("registration failed",
		zap.String("username", username),
		zap.String("step", string(step)),
		zap.Int("status_code", models.StatusOf(err)),
		zap.Error(err))

	detail := string(step)
	if status := models.StatusOf(err); status != 0 {
		detail = strconv.Itoa(status)
	}
	return a.fail(regErr, a.printer.Sprintf(i18n.MsgRegisterFailed, detail))
}

func (a *Authenticator) fail(err error, msg string) error {
	a.status = Status{Error: msg}
	return err
}

func (a *Authenticator) lookupMessage(e *models.LookupError) string {
	switch e.Category {
	case models.UserNotFound:
		return a.printer.Sprintf(i18n.MsgUserNotFound)
	case models.ServiceUnavailable:
		return a.printer.Sprintf(i18n.MsgUnavailable)
	default:
		return a.printer.Sprintf(i18n.MsgAPIError, e.Status, e.Body)
	}
}

// classify maps a failed user lookup onto a category: 404 is user-actionable,
// 5xx and transport failures are retriable, everything else is echoed.
func classify(err error) *models.LookupError {
	var se *models.HTTPStatusError
	if errors.As(err, &se) {
		switch {
		case se.Status == 404:
			return &models.LookupError{Category: models.UserNotFound, Status: se.Status, Err: err}
		case se.Status >= 500:
			return &models.LookupError{Category: models.ServiceUnavailable, Status: se.Status, Err: err}
		default:
			return &models.LookupError{Category: models.APIFailure, Status: se.Status, Body: se.Body, Err: err}
		}
	}
	var te *models.TransportError
	if errors.As(err, &te) {
		return &models.LookupError{Category: models.ServiceUnavailable, Err: err}
	}
	return &models.LookupError{Category: models.APIFailure, Body: err.Error(), Err: err}
}

// publish is best effort; a failed publish never changes the outcome.
func (a *Authenticator) publish(ctx context.Context, event any) {
	if a.publisher == nil {
		return
	}
	if err := a.publisher.Publish(ctx, a.cfg.Topic, event); err != nil {
		a.logger.Warn("failed to publish auth event", zap.Error(err))
	}
}
