// Package account turns a session record and the remote account service into
// a consistent, display-ready snapshot of one account.
package account

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/message"

	"github.com/sheikh-saqib/banking-session-client/internal/i18n"
	interfaces "github.com/sheikh-saqib/banking-session-client/internal/interfaces"
	"github.com/sheikh-saqib/banking-session-client/internal/models"
	"github.com/sheikh-saqib/banking-session-client/internal/resolver"
)

// Demo fallback dataset.
const (
	DemoAccountNumber = "1234"
	DemoBalance       = "1000.00"
	DemoDepositText   = "Demo Deposit"
	DemoWithdrawText  = "Demo Withdrawal"
)

var (
	demoDepositID  = uuid.NewSHA1(uuid.NameSpaceURL, []byte("bankclient/demo/deposit")).String()
	demoWithdrawID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("bankclient/demo/withdrawal")).String()
)

// localLayouts are accepted for timestamps that carry no zone. Every parsed
// timestamp ends up in the fetcher's location so calendar dates are local.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Fetcher retrieves one account's data and keeps its snapshot in a view store.
// Fetches of the same account are fenced: the last one started wins.
type Fetcher struct {
	svc     interfaces.AccountService
	store   interfaces.ViewStore
	printer *message.Printer
	logger  *zap.Logger
	now     func() time.Time
	loc     *time.Location
}

// Option customizes a Fetcher.
type Option func(*Fetcher)

// WithClock replaces time.Now, used to date the demo transactions.
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) { f.now = now }
}

// WithLocation sets the zone used for timestamps that carry none.
func WithLocation(loc *time.Location) Option {
	return func(f *Fetcher) { f.loc = loc }
}

func NewFetcher(svc interfaces.AccountService, store interfaces.ViewStore, printer *message.Printer, logger *zap.Logger, opts ...Option) *Fetcher {
	if printer == nil {
		printer = i18n.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &Fetcher{
		svc:     svc,
		store:   store,
		printer: printer,
		logger:  logger,
		now:     time.Now,
		loc:     time.Local,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch resolves the account identifier from rec and refreshes it. A missing
// record or identifier ends in the error phase without any network call.
func (f *Fetcher) Fetch(ctx context.Context, rec models.SessionRecord) models.Snapshot {
	if rec == nil {
		return f.failed(i18n.MsgNoSession, models.ErrNoSession)
	}
	id, path, ok := resolver.PostLogin.Match(rec)
	if !ok {
		return f.failed(i18n.MsgNoIdentifier, models.ErrIdentifierMissing)
	}
	f.logger.Debug("account identifier resolved", zap.String("account_number", id), zap.String("path", path))
	return f.Refresh(ctx, id)
}

// Refresh runs a full fetch cycle for an already resolved identifier.
// Transport, status and parse failures all end in the demo fallback.
func (f *Fetcher) Refresh(ctx context.Context, accountNumber string) models.Snapshot {
	gen := f.store.Begin(accountNumber)
	f.store.Commit(accountNumber, gen, f.loading(accountNumber))

	var snap models.Snapshot
	payload, err := f.svc.GetAccount(ctx, accountNumber)
	if err == nil {
		snap, err = f.normalize(payload)
	}
	if err != nil {
		f.logger.Warn("account fetch failed, showing demo data",
			zap.String("account_number", accountNumber),
			zap.Int("status_code", models.StatusOf(err)),
			zap.Error(err),
		)
		snap = f.demo(err)
	}

	if !f.store.Commit(accountNumber, gen, snap) {
		f.logger.Debug("dropping stale account fetch",
			zap.String("account_number", accountNumber),
			zap.Uint64("generation", gen),
		)
		if latest, ok := f.store.Get(accountNumber); ok {
			return latest
		}
	}
	return snap
}

// Snapshot returns the last committed snapshot for accountNumber.
func (f *Fetcher) Snapshot(accountNumber string) (models.Snapshot, bool) {
	return f.store.Get(accountNumber)
}

func (f *Fetcher) failed(msg string, cause error) models.Snapshot {
	f.logger.Info("account fetch not started", zap.Error(cause))
	return models.Snapshot{
		State: models.ErrorState(f.printer.Sprintf(msg)),
		View: models.AccountView{
			AccountNumber: f.printer.Sprintf(i18n.MsgNoNumber),
			Description:   f.printer.Sprintf(i18n.MsgNoDescription),
			Balance:       f.printer.Sprintf(i18n.MsgNoBalance),
		},
		Transactions: []models.Transaction{},
		Failure:      cause,
	}
}

// loading keeps the previous view and list on screen while a refresh runs.
func (f *Fetcher) loading(accountNumber string) models.Snapshot {
	if prev, ok := f.store.Get(accountNumber); ok {
		prev.State = models.LoadingState()
		prev.Failure = nil
		return prev
	}
	return models.Snapshot{
		State: models.LoadingState(),
		View: models.AccountView{
			AccountNumber: accountNumber,
			Description:   f.printer.Sprintf(i18n.MsgLoadingData),
			Balance:       f.printer.Sprintf(i18n.MsgLoadingBalance),
		},
		Transactions: []models.Transaction{},
	}
}

func (f *Fetcher) normalize(p models.AccountPayload) (models.Snapshot, error) {
	view := models.AccountView{
		AccountNumber: firstNonEmpty(p.AccountNumber.String(), f.printer.Sprintf(i18n.MsgNoNumber)),
		Description:   firstNonEmpty(p.Description, f.printer.Sprintf(i18n.MsgNoDescription)),
		Balance:       firstNonEmpty(p.Balance.String(), p.Saldo.String(), f.printer.Sprintf(i18n.MsgNoBalance)),
		SourceStatus:  models.Live,
	}

	txs := make([]models.Transaction, 0, len(p.Transactions))
	for i, raw := range p.Transactions {
		ts, err := f.parseTimestamp(raw.TransactionTimeStamp)
		if err != nil {
			return models.Snapshot{}, &models.ParseError{
				Op:  "get account",
				Err: fmt.Errorf("transaction %d: %w", i, err),
			}
		}
		txs = append(txs, models.Transaction{
			UUID:      raw.UUID,
			Text:      raw.Text,
			Timestamp: ts,
			Amount:    raw.Amount,
			Type:      models.ParseTransactionType(raw.TransactionType),
		})
	}
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Timestamp.After(txs[j].Timestamp)
	})

	return models.Snapshot{
		State:        models.SuccessState(),
		View:         view,
		Transactions: txs,
	}, nil
}

func (f *Fetcher) parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(f.loc), nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, f.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp %q", s)
}

// demo builds the fallback snapshot. The error indicator is cleared but the
// cause stays available in Failure.
func (f *Fetcher) demo(cause error) models.Snapshot {
	now := f.now().In(f.loc)
	return models.Snapshot{
		State: models.SuccessState(),
		View: models.AccountView{
			AccountNumber: DemoAccountNumber,
			Description:   f.printer.Sprintf(i18n.MsgDemoDescription),
			Balance:       DemoBalance,
			SourceStatus:  models.Demo,
		},
		Transactions: []models.Transaction{
			{
				UUID:      demoDepositID,
				Text:      DemoDepositText,
				Timestamp: now,
				Amount:    decimal.NewFromInt(100),
				Type:      models.Deposit,
			},
			{
				UUID:      demoWithdrawID,
				Text:      DemoWithdrawText,
				Timestamp: now.AddDate(0, 0, -1),
				Amount:    decimal.NewFromInt(50),
				Type:      models.Withdrawal,
			},
		},
		Failure: cause,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
