package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sheikh-saqib/banking-session-client/internal/account"
	"github.com/sheikh-saqib/banking-session-client/internal/auth"
	"github.com/sheikh-saqib/banking-session-client/internal/client"
	"github.com/sheikh-saqib/banking-session-client/internal/config"
	"github.com/sheikh-saqib/banking-session-client/internal/events/kafka"
	"github.com/sheikh-saqib/banking-session-client/internal/filter"
	"github.com/sheikh-saqib/banking-session-client/internal/i18n"
	interfaces "github.com/sheikh-saqib/banking-session-client/internal/interfaces"
	"github.com/sheikh-saqib/banking-session-client/internal/logging"
	"github.com/sheikh-saqib/banking-session-client/internal/models"
	"github.com/sheikh-saqib/banking-session-client/internal/mutation"
	"github.com/sheikh-saqib/banking-session-client/internal/storage/memory"
)

const usage = `usage: bankclient <command> [flags]

commands:
  login     -user NAME -password PW       sign in and show the account
  show      -account NUMBER               show the account and its transactions
  search    -account NUMBER -q QUERY      show transactions matching QUERY
  deposit   -account NUMBER -amount X [-text T]
  withdraw  -account NUMBER -amount X [-text T]
  register  -user NAME -name FULL [-password PW -confirm PW]
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := newApp(cfg, logger, os.Stdout)
	defer app.close()

	if err := app.run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app wires one session's components for a single command.
type app struct {
	tag       language.Tag
	printer   *message.Printer
	logger    *zap.Logger
	out       io.Writer
	publisher *kafka.Publisher
	fetcher   *account.Fetcher
	coord     *mutation.Coordinator
	auth      *auth.Authenticator
}

func newApp(cfg config.Config, logger *zap.Logger, out io.Writer) *app {
	tag := i18n.Match(cfg.Locale)
	printer := i18n.NewPrinter(tag)
	svc := client.NewAccountClient(cfg.AccountServiceURL, cfg.HTTPTimeout, logger.Named("client"))

	a := &app{tag: tag, printer: printer, logger: logger, out: out}

	var pub interfaces.EventPublisher
	if cfg.PublishingEnabled() {
		a.publisher = kafka.NewPublisher(cfg.KafkaBrokers, logger.Named("kafka"))
		pub = a.publisher
	}

	a.fetcher = account.NewFetcher(svc, memory.NewViewStore(), printer, logger.Named("fetcher"))
	a.coord = mutation.NewCoordinator(svc, a.fetcher, pub, printer, logger.Named("mutation"), mutation.WithTopic(cfg.KafkaTopic))
	a.auth = auth.NewAuthenticator(svc, auth.Config{Password: cfg.LoginPassword, Topic: cfg.KafkaTopic}, pub, printer, logger.Named("auth"))
	return a
}

func (a *app) close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("failed to close publisher", zap.Error(err))
		}
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return flag.ErrHelp
	}

	cmd, rest := args[0], args[1:]
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(a.out)

	switch cmd {
	case "login":
		user := fs.String("user", "", "username")
		password := fs.String("password", "", "password")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return a.login(ctx, *user, *password)

	case "show", "search":
		acc := fs.String("account", "", "account number")
		query := fs.String("q", "", "search query")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		snap := a.fetcher.Fetch(ctx, models.SessionRecord{"accountNumber": *acc})
		return a.render(snap, *query)

	case "deposit", "withdraw":
		acc := fs.String("account", "", "account number")
		amount := fs.String("amount", "", "amount greater than 0")
		text := fs.String("text", "", "booking text")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		kind := models.KindDeposit
		if cmd == "withdraw" {
			kind = models.KindWithdrawal
		}
		return a.mutate(ctx, kind, *acc, *amount, *text)

	case "register":
		a.auth.SetMode(auth.RegisterMode)
		user := fs.String("user", "", "username")
		name := fs.String("name", "", "full name")
		password := fs.String("password", "", "password")
		confirm := fs.String("confirm", "", "password confirmation")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		a.auth.Form = auth.Form{Username: *user, FullName: *name, Password: *password, ConfirmPassword: *confirm}
		number, err := a.auth.Register(ctx)
		if err != nil {
			return errors.New(a.auth.Status().Error)
		}
		fmt.Fprintln(a.out, a.auth.Status().Success)
		fmt.Fprintln(a.out, number)
		return nil

	default:
		fmt.Fprint(a.out, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) login(ctx context.Context, user, password string) error {
	a.auth.SetMode(auth.LoginMode)
	a.auth.Form = auth.Form{Username: user, Password: password}

	session, err := a.auth.Submit(ctx)
	if err != nil {
		return errors.New(a.auth.Status().Error)
	}
	fmt.Fprintln(a.out, a.auth.Status().Success)
	if session.FullName != "" {
		fmt.Fprintln(a.out, session.FullName)
	}
	return a.render(a.fetcher.Fetch(ctx, session.Record()), "")
}

func (a *app) mutate(ctx context.Context, kind models.MutationKind, acc, rawAmount, text string) error {
	amount, err := mutation.ParseAmount(rawAmount)
	if err != nil {
		return errors.New(a.printer.Sprintf(i18n.MsgInvalidAmount))
	}
	if acc == "" {
		return errors.New(a.printer.Sprintf(i18n.MsgNoIdentifier))
	}

	res := a.coord.Submit(ctx, kind, models.MutationRequest{Text: text, Amount: amount}, acc)
	if !res.Success {
		return errors.New(res.Message)
	}
	fmt.Fprintln(a.out, res.Message)

	snap, ok := a.fetcher.Snapshot(acc)
	if !ok {
		return nil
	}
	return a.render(snap, "")
}

func (a *app) render(snap models.Snapshot, query string) error {
	if snap.State.IsError() {
		return errors.New(snap.State.Message())
	}
	if snap.Failure != nil {
		a.logger.Debug("showing fallback data", zap.Error(snap.Failure))
	}
	return renderSnapshot(a.out, a.printer, a.tag, snap, filter.Filter(snap.Transactions, query, a.tag))
}
