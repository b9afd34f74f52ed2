package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/alexanderramin/moneyplan/internal/cli/formatter"
	"github.com/alexanderramin/moneyplan/internal/importer"
	"github.com/alexanderramin/moneyplan/internal/notify"
	"github.com/alexanderramin/moneyplan/internal/repository"
	"github.com/alexanderramin/moneyplan/internal/service"
	"github.com/alexanderramin/moneyplan/internal/session"
	"github.com/alexanderramin/moneyplan/internal/share"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Auth     service.AuthService
	Accounts service.AccountService
	Plans    service.PlanService

	// YNAB is nil when no YNAB token is configured.
	YNAB         *importer.YNABImporter
	YNABBudgetID string

	// Locations remembers the page of paginated lists between runs. When
	// nil, pages are not remembered.
	Locations repository.LocationRepo

	PageSize        int
	ShareExpiryDays int

	// CopyLink defaults to share.CopyLink.
	CopyLink func(link string) error

	// IsInteractive reports whether a terminal is attached. Forms and the
	// spinner only run when it returns true.
	IsInteractive func() bool

	// Notifier shows command failures that no service has toasted yet.
	Notifier notify.Notifier
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) copyLink(link string) error {
	if a.CopyLink != nil {
		return a.CopyLink(link)
	}
	return share.CopyLink(link)
}

// spin starts a spinner on stderr for interactive sessions and returns its
// stop function.
func (a *App) spin(cmd *cobra.Command, message string) func() {
	if !a.interactive() {
		return func() {}
	}
	return formatter.StartSpinner(cmd.ErrOrStderr(), message)
}

// GlobalFlags are the persistent flags. main parses them ahead of the
// command tree so the configuration can be loaded before wiring.
type GlobalFlags struct {
	ConfigFile string
	GraphQLURL string
	DBPath     string
	LogLevel   string
	PageSize   int
}

func AddGlobalFlags(fs *pflag.FlagSet, g *GlobalFlags) {
	fs.StringVar(&g.ConfigFile, "config", "", "Config file (default $HOME/.moneyplan/config.yaml)")
	fs.StringVar(&g.GraphQLURL, "graphql-url", "", "GraphQL API endpoint")
	fs.StringVar(&g.DBPath, "db", "", "Local session database path")
	fs.StringVar(&g.LogLevel, "log-level", "", "Log level: debug, info, warn or error")
	fs.IntVar(&g.PageSize, "page-size", 0, "Accounts per page")
}

// NewRootCmd creates the top-level "moneyplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "moneyplan",
		Short:         "Plan where every paycheck goes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	AddGlobalFlags(root.PersistentFlags(), &GlobalFlags{})

	root.AddCommand(
		newLoginCmd(app),
		newRegisterCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newAccountsCmd(app),
		newPlanCmd(app),
	)

	return root
}

// Execute runs root. A failure that was not already shown is sent to
// app.Notifier as an error toast, and the returned error is marked reported.
func Execute(ctx context.Context, root *cobra.Command, app *App) error {
	err := root.ExecuteContext(ctx)
	if err == nil || notify.IsReported(err) || app.Notifier == nil {
		return err
	}
	notify.Error(ctx, app.Notifier, err.Error())
	return notify.Reported(err)
}

// requireAuth is the PersistentPreRunE of every command group that talks
// to the API on behalf of a user.
func requireAuth(app *App) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if !app.Auth.IsAuthenticated() {
			return session.ErrNotAuthenticated
		}
		return nil
	}
}

func out(cmd *cobra.Command) io.Writer { return cmd.OutOrStdout() }

func printLine(cmd *cobra.Command, a ...any) {
	fmt.Fprintln(out(cmd), a...)
}

// render writes preformatted output that already ends in a newline.
func render(cmd *cobra.Command, s string) {
	fmt.Fprint(out(cmd), s)
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
