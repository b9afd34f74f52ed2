package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/moneyplan/internal/cli/formatter"
	"github.com/alexanderramin/moneyplan/internal/domain"
	"github.com/alexanderramin/moneyplan/internal/importer"
	"github.com/alexanderramin/moneyplan/internal/pagination"
	"github.com/alexanderramin/moneyplan/internal/service"
	"github.com/spf13/cobra"
)

const accountsRoute = "/accounts"

func newAccountsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "accounts",
		Aliases:           []string{"account"},
		Short:             "Manage accounts",
		PersistentPreRunE: requireAuth(app),
	}

	cmd.AddCommand(
		newAccountsListCmd(app),
		newAccountsAddCmd(app),
		newAccountsEditCmd(app),
		newAccountsImportYNABCmd(app),
	)

	return cmd
}

func newAccountsListCmd(app *App) *cobra.Command {
	var page int
	var next, prev, all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts one page at a time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxOf(cmd)

			stop := app.spin(cmd, "Loading accounts...")
			accounts, err := app.Accounts.List(ctx)
			stop()
			if err != nil {
				return err
			}
			if all {
				render(cmd, formatter.FormatAccountList(accounts, nil))
				return nil
			}

			state, err := app.pageState(ctx, accountsRoute)
			if err != nil {
				return err
			}
			p := pagination.New(state, app.PageSize)
			p.SetTotal(len(accounts))

			switch {
			case page > 0:
				if !p.InRange(page) {
					return fmt.Errorf("page %d is out of range (1-%d)", page, max(p.TotalPages(), 1))
				}
				err = p.GoToPage(page)
			case next:
				err = p.GoToNextPage()
			case prev:
				err = p.GoToPreviousPage()
			}
			if err != nil {
				return err
			}

			items, err := app.Accounts.Page(ctx, p)
			if err != nil {
				return err
			}
			render(cmd, formatter.FormatAccountList(items, p))
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "Go to page N")
	cmd.Flags().BoolVar(&next, "next", false, "Go to the next page")
	cmd.Flags().BoolVar(&prev, "prev", false, "Go to the previous page")
	cmd.Flags().BoolVar(&all, "all", false, "List every account without paging")
	cmd.MarkFlagsMutuallyExclusive("page", "next", "prev", "all")

	return cmd
}

func newAccountsAddCmd(app *App) *cobra.Command {
	var name, notes string

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Create an account",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				name = args[0]
			}
			acct, err := app.Accounts.Create(ctxOf(cmd), service.CreateAccountInput{Name: name, Notes: notes})
			if err != nil {
				return err
			}
			printLine(cmd, fmt.Sprintf("%s %s", formatter.Bold(acct.Name), formatter.TruncID(acct.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Account name")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes")

	return cmd
}

func newAccountsEditCmd(app *App) *cobra.Command {
	var name, notes string

	cmd := &cobra.Command{
		Use:   "edit <account>",
		Short: "Rename an account or change its notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxOf(cmd)
			acct, err := resolveAccount(ctx, app, args[0])
			if err != nil {
				return err
			}

			var in service.UpdateAccountInput
			if cmd.Flags().Changed("name") {
				in.Name = &name
			}
			if cmd.Flags().Changed("notes") {
				in.Notes = &notes
			}
			updated, err := app.Accounts.Update(ctx, acct.ID, in)
			if err != nil {
				return err
			}
			printLine(cmd, fmt.Sprintf("%s %s", formatter.Bold(updated.Name), formatter.TruncID(updated.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&notes, "notes", "", "New notes")

	return cmd
}

func newAccountsImportYNABCmd(app *App) *cobra.Command {
	var budget string

	cmd := &cobra.Command{
		Use:   "import-ynab",
		Short: "Create accounts for the open accounts of a YNAB budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.YNAB == nil {
				return fmt.Errorf("YNAB import is not configured (set ynab.token)")
			}
			if budget == "" {
				budget = app.YNABBudgetID
			}

			stop := app.spin(cmd, "Importing from YNAB...")
			result, err := app.YNAB.Import(ctxOf(cmd), budget)
			stop()
			if result != nil {
				render(cmd, formatYNABResult(result.Created, result.Skipped))
			}
			return err
		},
	}

	cmd.Flags().StringVar(&budget, "budget", "", "YNAB budget ID (default ynab.budget_id)")

	return cmd
}

func formatYNABResult(created []*domain.Account, skipped []importer.Skipped) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Imported %s from YNAB\n", formatter.Count(len(created), "account"))
	for _, a := range created {
		fmt.Fprintf(&b, "  %s %s\n", formatter.StyleGreen.Render("+"), a.Name)
	}
	for _, s := range skipped {
		fmt.Fprintf(&b, "  %s %s %s\n", formatter.Dim("-"), s.Name, formatter.Dim("("+s.Reason+")"))
	}
	return b.String()
}
