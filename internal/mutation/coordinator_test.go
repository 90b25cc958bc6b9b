package mutation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/text/language"

	"github.com/sheikh-saqib/banking-session-client/internal/account"
	"github.com/sheikh-saqib/banking-session-client/internal/client"
	"github.com/sheikh-saqib/banking-session-client/internal/fakebank"
	"github.com/sheikh-saqib/banking-session-client/internal/i18n"
	"github.com/sheikh-saqib/banking-session-client/internal/models"
	"github.com/sheikh-saqib/banking-session-client/internal/models/events"
	"github.com/sheikh-saqib/banking-session-client/internal/storage/memory"
)

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	events []any
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return p.err
}

type harness struct {
	bank    *fakebank.Server
	fetcher *account.Fetcher
	pub     *recordingPublisher
	coord   *Coordinator
}

func newHarness(t *testing.T, tag language.Tag) *harness {
	t.Helper()
	logger := zaptest.NewLogger(t)
	bank := fakebank.New(t)
	svc := client.NewAccountClient(bank.URL, 0, logger)
	printer := i18n.NewPrinter(tag)
	fetcher := account.NewFetcher(svc, memory.NewViewStore(), printer, logger)
	pub := &recordingPublisher{}
	return &harness{
		bank:    bank,
		fetcher: fetcher,
		pub:     pub,
		coord:   NewCoordinator(svc, fetcher, pub, printer, logger, WithTopic("test_events")),
	}
}

func amount(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestDepositRefreshesBeforeReturning(t *testing.T) {
	t.Parallel()
	h := newHarness(t, language.German)
	h.bank.AddAccount("8920", "Giro", "10")

	res := h.coord.Submit(context.Background(), models.KindDeposit,
		models.MutationRequest{Text: "Cash", Amount: amount("5")}, "8920")
	require.True(t, res.Success)
	require.Equal(t, "Einzahlung erfolgreich", res.Message)
	require.NoError(t, res.Err)

	require.Equal(t, 1, h.bank.Calls(fakebank.RouteGetAccount))
	snap, ok := h.fetcher.Snapshot("8920")
	require.True(t, ok)
	require.Equal(t, "15.00", snap.View.Balance)
	require.Len(t, snap.Transactions, 1)
	require.Equal(t, "Cash", snap.Transactions[0].Text)

	bodies := h.bank.Bodies(fakebank.RouteDeposit)
	require.Len(t, bodies, 1)
	require.Equal(t, "8920", bodies[0]["accountId"])
	require.Equal(t, "8920", bodies[0]["accountNumber"])
	require.Equal(t, "Cash", bodies[0]["text"])
}

func TestEmptyTextIsStillSent(t *testing.T) {
	t.Parallel()
	h := newHarness(t, language.German)
	h.bank.AddAccount("1", "Giro", "10")

	res := h.coord.Submit(context.Background(), models.KindWithdrawal,
		models.MutationRequest{Amount: amount("2.5")}, "1")
	require.True(t, res.Success)
	require.Equal(t, "Auszahlung erfolgreich", res.Message)

	body := h.bank.Bodies(fakebank.RouteWithdraw)[0]
	text, present := body["text"]
	require.True(t, present)
	require.Equal(t, "", text)

	balance, _ := h.bank.Balance("1")
	require.True(t, amount("7.5").Equal(balance))
}

func TestRejectedMutationDoesNotRefresh(t *testing.T) {
	t.Parallel()
	h := newHarness(t, language.German)
	h.bank.AddAccount("1", "Giro", "10")

	res := h.coord.Submit(context.Background(), models.KindWithdrawal,
		models.MutationRequest{Amount: amount("50")}, "1")
	require.False(t, res.Success)
	require.Equal(t, 409, res.Status)
	require.Equal(t, "Auszahlung fehlgeschlagen (Status 409)", res.Message)

	var mf *models.MutationFailedError
	require.ErrorAs(t, res.Err, &mf)
	require.Equal(t, models.KindWithdrawal, mf.Kind)
	require.Equal(t, 409, models.StatusOf(res.Err))

	require.Zero(t, h.bank.Calls(fakebank.RouteGetAccount))
	_, ok := h.fetcher.Snapshot("1")
	require.False(t, ok)
}

func TestMutationMessagesAreLocalized(t *testing.T) {
	t.Parallel()
	h := newHarness(t, language.English)
	h.bank.FailWith(fakebank.RouteDeposit, 500, "down")

	res := h.coord.Submit(context.Background(), models.KindDeposit,
		models.MutationRequest{Amount: amount("1")}, "1")
	require.False(t, res.Success)
	require.Equal(t, "Deposit failed (status 500)", res.Message)
}

func TestTransportFailure(t *testing.T) {
	t.Parallel()
	h := newHarness(t, language.German)
	h.bank.Close()

	res := h.coord.Submit(context.Background(), models.KindDeposit,
		models.MutationRequest{Amount: amount("1")}, "1")
	require.False(t, res.Success)
	require.Zero(t, res.Status)
	require.Equal(t, "Einzahlung fehlgeschlagen: Dienst nicht erreichbar", res.Message)
	var te *models.TransportError
	require.ErrorAs(t, res.Err, &te)
}

func TestMutationEvents(t *testing.T) {
	t.Parallel()
	h := newHarness(t, language.German)
	h.bank.AddAccount("1", "Giro", "10")

	h.coord.Submit(context.Background(), models.KindDeposit, models.MutationRequest{Amount: amount("1")}, "1")
	h.coord.Submit(context.Background(), models.KindWithdrawal, models.MutationRequest{Amount: amount("100")}, "1")

	require.Equal(t, []string{"test_events", "test_events"}, h.pub.topics)
	first := h.pub.events[0].(events.MutationCompleted)
	second := h.pub.events[1].(events.MutationCompleted)
	require.True(t, first.Success)
	require.Equal(t, events.TypeMutationCompleted, first.Type)
	require.Equal(t, "deposit", first.Kind)
	require.False(t, second.Success)
	require.Equal(t, 409, second.Status)
	require.NotEqual(t, first.EventID, second.EventID)
	require.Len(t, first.EventID, 26)
}

func TestPublishFailureDoesNotChangeResult(t *testing.T) {
	t.Parallel()
	h := newHarness(t, language.German)
	h.bank.AddAccount("1", "Giro", "10")
	h.pub.err = errors.New("broker down")

	res := h.coord.Submit(context.Background(), models.KindDeposit, models.MutationRequest{Amount: amount("1")}, "1")
	require.True(t, res.Success)
}

func TestNilPublisher(t *testing.T) {
	t.Parallel()
	bank := fakebank.New(t)
	bank.AddAccount("1", "Giro", "10")
	svc := client.NewAccountClient(bank.URL, 0, nil)
	fetcher := account.NewFetcher(svc, memory.NewViewStore(), nil, nil)

	res := NewCoordinator(svc, fetcher, nil, nil, nil).
		Submit(context.Background(), models.KindDeposit, models.MutationRequest{Amount: amount("1")}, "1")
	require.True(t, res.Success)
}

func TestParseAmount(t *testing.T) {
	t.Parallel()

	got, err := ParseAmount(" 12.50 ")
	require.NoError(t, err)
	require.True(t, amount("12.5").Equal(got))

	for _, raw := range []string{"0", "-5", "", "abc", "0.00"} {
		_, err := ParseAmount(raw)
		var ve *models.ValidationError
		require.ErrorAs(t, err, &ve, raw)
		require.Equal(t, "amount", ve.Field)
	}
}
