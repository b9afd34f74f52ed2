package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alexanderramin/moneyplan/internal/cli"
	"github.com/alexanderramin/moneyplan/internal/config"
	"github.com/alexanderramin/moneyplan/internal/db"
	"github.com/alexanderramin/moneyplan/internal/graphql"
	"github.com/alexanderramin/moneyplan/internal/importer"
	"github.com/alexanderramin/moneyplan/internal/logging"
	"github.com/alexanderramin/moneyplan/internal/notify"
	"github.com/alexanderramin/moneyplan/internal/repository"
	"github.com/alexanderramin/moneyplan/internal/service"
	"github.com/alexanderramin/moneyplan/internal/session"
	"github.com/alexanderramin/moneyplan/internal/share"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		// Command failures arrive as toasts; only startup errors are printed.
		if !notify.IsReported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Parse the persistent flags ahead of cobra so config can be loaded
	// before anything is wired. cobra parses them again for real.
	var global cli.GlobalFlags
	pre := pflag.NewFlagSet("moneyplan", pflag.ContinueOnError)
	pre.ParseErrorsWhitelist.UnknownFlags = true
	pre.Usage = func() {}
	pre.SetOutput(io.Discard)
	cli.AddGlobalFlags(pre, &global)
	_ = pre.Parse(os.Args[1:])

	cfg, err := config.Load(global.ConfigFile, pre)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.New(os.Stderr, cfg.LogLevel)
	slog.SetDefault(logger)

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	uow := db.NewSQLiteUnitOfWork(database)
	sessions := session.NewManager(repository.NewSQLiteSessionRepo(database, uow), logger)
	if err := sessions.Restore(ctx); err != nil {
		return err
	}

	gql := graphql.NewClient(graphql.Config{
		Endpoint:  cfg.GraphQLURL,
		Timeout:   cfg.RequestTimeout,
		CacheSize: cfg.Cache.Size,
		CacheTTL:  cfg.Cache.TTL,
	}, sessions, graphql.NewLogObserver(logger))
	sessions.OnLogout(gql.Purge)

	notifier := notify.Multi{notify.NewTerminalNotifier(os.Stderr), notify.NewLogNotifier(logger)}

	mailer, closeMailer, err := newMailer(cfg, logger)
	if err != nil {
		return err
	}
	defer closeMailer()

	observer := service.NewLogUseCaseObserver(logger)
	accounts := service.NewAccountService(gql, notifier, logger, observer)

	app := &cli.App{
		Auth:            service.NewAuthService(gql, sessions, notifier, logger, observer),
		Accounts:        accounts,
		Plans:           service.NewPlanService(gql, notifier, mailer, logger, observer),
		YNABBudgetID:    cfg.YNAB.BudgetID,
		Locations:       repository.NewSQLiteLocationRepo(database),
		PageSize:        cfg.PageSize,
		ShareExpiryDays: cfg.Share.ExpiryDays,
		Notifier:        notifier,
	}
	if cfg.YNAB.Token != "" {
		app.YNAB = importer.NewYNABImporter(importer.NewYNABLister(cfg.YNAB.Token), accounts, logger)
	}

	// Detect interactive terminal for forms and the spinner.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.Execute(ctx, cli.NewRootCmd(app), app)
}

// newMailer picks the share email backend from mail.backend.
func newMailer(cfg *config.Config, logger *slog.Logger) (share.Mailer, func(), error) {
	switch cfg.Mail.Backend {
	case config.MailSMTP:
		return share.NewSMTPMailer(share.SMTPConfig{
			Host:     cfg.Mail.SMTP.Host,
			Port:     cfg.Mail.SMTP.Port,
			Username: cfg.Mail.SMTP.Username,
			Password: cfg.Mail.SMTP.Password,
			From:     cfg.Mail.SMTP.From,
		}), func() {}, nil
	case config.MailAMQP:
		q, err := share.DialQueueMailer(share.AMQPConfig{
			URL:      cfg.Mail.AMQP.URL,
			Exchange: cfg.Mail.AMQP.Exchange,
			Queue:    cfg.Mail.AMQP.Queue,
		}, logger)
		if err != nil {
			// Sharing by link still works without the queue.
			logger.Warn("mail queue unavailable, email sharing disabled", "error", err)
			return share.DisabledMailer{}, func() {}, nil
		}
		return q, func() { _ = q.Close() }, nil
	default:
		return share.DisabledMailer{}, func() {}, nil
	}
}
