package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/alexanderramin/moneyplan/internal/cli/formatter"
	"github.com/alexanderramin/moneyplan/internal/domain"
	"github.com/alexanderramin/moneyplan/internal/notify"
	"github.com/alexanderramin/moneyplan/internal/planio"
	"github.com/alexanderramin/moneyplan/internal/service"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"
)

var errCommitFailed = errors.New("plan was not committed")

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "plan",
		Aliases:           []string{"plans"},
		Short:             "Create, allocate, commit and share money plans",
		PersistentPreRunE: requireAuth(app),
	}

	cmd.AddCommand(
		newPlanListCmd(app),
		newPlanDraftCmd(app),
		newPlanShowCmd(app),
		newPlanCreateCmd(app),
		newPlanAdjustCmd(app),
		newPlanCommitCmd(app),
		newPlanArchiveCmd(app),
		newPlanAddAccountCmd(app),
		newPlanRemoveAccountCmd(app),
		newPlanBucketsCmd(app),
		newPlanNotesCmd(app),
		newPlanCheckCmd(app),
		newPlanShareCmd(app),
		newPlanExportCmd(app),
	)

	return cmd
}

// draftOrNotice loads the draft plan. When there is none it prints a notice
// and returns nil, which callers treat as "nothing to do".
func draftOrNotice(cmd *cobra.Command, app *App) (*domain.Plan, error) {
	draft, err := app.Plans.Draft(ctxOf(cmd))
	if err != nil {
		return nil, err
	}
	if draft == nil {
		printLine(cmd, formatter.Dim("No draft plan. Start one with: moneyplan plan create --balance <amount>"))
	}
	return draft, nil
}

// targetPlan resolves --plan when given, else the draft.
func targetPlan(cmd *cobra.Command, app *App, planFlag string) (*domain.Plan, error) {
	if planFlag == "" {
		return draftOrNotice(cmd, app)
	}
	p, err := resolvePlan(ctxOf(cmd), app, planFlag)
	if err != nil {
		return nil, err
	}
	return app.Plans.Get(ctxOf(cmd), p.ID)
}

// reloadIfEmpty returns p, or the plan re-read by ID when the mutation
// answered without data.
func reloadIfEmpty(cmd *cobra.Command, app *App, planID string, p *domain.Plan) (*domain.Plan, error) {
	if p != nil {
		return p, nil
	}
	return app.Plans.Get(ctxOf(cmd), planID)
}

func showPlan(cmd *cobra.Command, app *App, p *domain.Plan) {
	render(cmd, formatter.FormatPlan(p, app.Plans.IsCheckingAccount))
}

func newPlanListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stop := app.spin(cmd, "Loading plans...")
			plans, err := app.Plans.List(ctxOf(cmd))
			stop()
			if err != nil {
				return err
			}
			render(cmd, formatter.FormatPlanList(plans))
			return nil
		},
	}
}

func newPlanDraftCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "draft",
		Short: "Show the draft plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := draftOrNotice(cmd, app)
			if err != nil || draft == nil {
				return err
			}
			showPlan(cmd, app, draft)
			return nil
		},
	}
}

func newPlanShowCmd(app *App) *cobra.Command {
	var dump bool

	cmd := &cobra.Command{
		Use:   "show <plan>",
		Short: "Show a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxOf(cmd)
			ref, err := resolvePlan(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Plans.Get(ctx, ref.ID)
			if err != nil {
				return err
			}
			if dump {
				printer := pp.New()
				printer.SetOutput(out(cmd))
				printer.SetColoringEnabled(app.interactive())
				_, err := printer.Println(p)
				return err
			}
			showPlan(cmd, app, p)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dump, "dump", false, "Print the raw plan structure")

	return cmd
}

func newPlanCreateCmd(app *App) *cobra.Command {
	var balance, notes, date, copyFrom string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Start a draft plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxOf(cmd)
			if balance == "" && app.interactive() {
				if err := planCreateForm(&balance, &notes, &date).Run(); err != nil {
					return err
				}
			}
			if balance == "" {
				return fmt.Errorf("--balance is required")
			}
			amount, err := domain.ParseAmount(balance)
			if err != nil {
				return err
			}

			in := service.CreatePlanInput{InitialBalance: amount, Notes: notes}
			if date != "" {
				d, err := parseDate(date)
				if err != nil {
					return err
				}
				in.PlanDate = &d
			} else {
				today := time.Now()
				in.PlanDate = &today
			}
			if copyFrom != "" {
				src, err := resolvePlan(ctx, app, copyFrom)
				if err != nil {
					return err
				}
				in.CopyFrom = src.ID
			}

			stop := app.spin(cmd, "Creating plan...")
			p, err := app.Plans.CreatePlan(ctx, in)
			stop()
			if err != nil {
				return err
			}
			if p == nil {
				if p, err = draftOrNotice(cmd, app); err != nil || p == nil {
					return err
				}
			}
			showPlan(cmd, app, p)
			return nil
		},
	}

	cmd.Flags().StringVar(&balance, "balance", "", "Initial balance, e.g. 2500.00")
	cmd.Flags().StringVar(&notes, "notes", "", "Plan notes")
	cmd.Flags().StringVar(&date, "date", "", "Plan date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&copyFrom, "copy-from", "", "Copy accounts and buckets from an existing plan")

	return cmd
}

func newPlanAdjustCmd(app *App) *cobra.Command {
	var amount, reason string

	cmd := &cobra.Command{
		Use:   "adjust",
		Short: "Adjust the draft plan's balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			adjustment, err := domain.ParseAmount(amount)
			if err != nil {
				return err
			}
			draft, err := draftOrNotice(cmd, app)
			if err != nil || draft == nil {
				return err
			}
			p, err := app.Plans.UpdatePlan(ctxOf(cmd), draft.ID, adjustment, reason)
			if err != nil {
				return err
			}
			if p, err = reloadIfEmpty(cmd, app, draft.ID, p); err != nil {
				return err
			}
			printLine(cmd, "Remaining "+formatter.Remaining(p.Remaining()))
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "Amount to add (negative to subtract)")
	cmd.Flags().StringVar(&reason, "reason", "", "Why the balance changed")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newPlanCommitCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "commit",
		Short: "Commit the draft plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := draftOrNotice(cmd, app)
			if err != nil || draft == nil {
				return err
			}
			stop := app.spin(cmd, "Committing plan...")
			p := app.Plans.CommitPlan(ctxOf(cmd), draft.ID)
			stop()
			if p == nil {
				// Failures were already toasted. A success without data
				// shows up as a committed plan on reload.
				reloaded, err := app.Plans.Get(ctxOf(cmd), draft.ID)
				if err != nil || !reloaded.IsCommitted {
					return notify.Reported(errCommitFailed)
				}
				p = reloaded
			}
			render(cmd, formatter.StatusPill(p.Status())+"\n")
			return nil
		},
	}
}

func newPlanArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <plan>",
		Short: "Archive a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxOf(cmd)
			ref, err := resolvePlan(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Plans.ArchivePlan(ctx, ref.ID)
			if err != nil {
				return err
			}
			if p, err = reloadIfEmpty(cmd, app, ref.ID, p); err != nil {
				return err
			}
			render(cmd, formatter.StatusPill(p.Status())+"\n")
			return nil
		},
	}
}

func newPlanExportCmd(app *App) *cobra.Command {
	var format, outPath string

	cmd := &cobra.Command{
		Use:   "export <plan>",
		Short: "Export a plan as JSON, YAML or an Excel workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxOf(cmd)
			f, err := planio.ParseFormat(format)
			if err != nil {
				return err
			}
			if f == planio.FormatXLSX && outPath == "" {
				return fmt.Errorf("--out is required for xlsx")
			}
			ref, err := resolvePlan(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Plans.Get(ctx, ref.ID)
			if err != nil {
				return err
			}

			if outPath == "" {
				return planio.Export(out(cmd), p, f)
			}
			file, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("creating %s: %w", outPath, err)
			}
			if err := planio.Export(file, p, f); err != nil {
				file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return fmt.Errorf("writing %s: %w", outPath, err)
			}
			printLine(cmd, formatter.Dim("Wrote "+outPath))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "json, yaml or xlsx")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default stdout)")

	return cmd
}
