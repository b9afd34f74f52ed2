package cli

import (
	"fmt"

	"github.com/alexanderramin/moneyplan/internal/cli/formatter"
	"github.com/alexanderramin/moneyplan/internal/domain"
	"github.com/alexanderramin/moneyplan/internal/importer"
	"github.com/spf13/cobra"
)

func newPlanAddAccountCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add-account <account>",
		Short: "Add an account to the draft plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxOf(cmd)
			acct, err := resolveAccount(ctx, app, args[0])
			if err != nil {
				return err
			}
			draft, err := draftOrNotice(cmd, app)
			if err != nil || draft == nil {
				return err
			}
			p, err := app.Plans.AddAccountToPlan(ctx, draft.ID, acct.ID)
			if err != nil {
				return err
			}
			return showReloaded(cmd, app, draft.ID, p)
		},
	}
}

func newPlanRemoveAccountCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-account <plan-account>",
		Short: "Remove an account from the draft plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := draftOrNotice(cmd, app)
			if err != nil || draft == nil {
				return err
			}
			pa, err := resolvePlanAccount(draft, args[0])
			if err != nil {
				return err
			}
			p, err := app.Plans.RemoveAccountFromPlan(ctxOf(cmd), draft.ID, pa.ID)
			if err != nil {
				return err
			}
			return showReloaded(cmd, app, draft.ID, p)
		},
	}
}

func newPlanBucketsCmd(app *App) *cobra.Command {
	var bucketFlags []string
	var file string

	cmd := &cobra.Command{
		Use:   "buckets <plan-account>",
		Short: "Replace the buckets of a plan account",
		Long: `Replace the buckets of a plan account on the draft plan.

Buckets are given as repeated --bucket name:category:amount flags, or as a
YAML or JSON file with --file. Categories are need, want, savings/investing
and other. Pass neither to clear every bucket.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buckets, err := bucketsFromFlags(bucketFlags, file)
			if err != nil {
				return err
			}
			draft, err := draftOrNotice(cmd, app)
			if err != nil || draft == nil {
				return err
			}
			pa, err := resolvePlanAccount(draft, args[0])
			if err != nil {
				return err
			}
			p, err := app.Plans.UpdatePlanAccount(ctxOf(cmd), draft.ID, pa.ID, buckets)
			if err != nil {
				return err
			}
			return showReloaded(cmd, app, draft.ID, p)
		},
	}

	cmd.Flags().StringArrayVar(&bucketFlags, "bucket", nil, "Bucket as name:category:amount (repeatable)")
	cmd.Flags().StringVar(&file, "file", "", "YAML or JSON bucket file")
	cmd.MarkFlagsMutuallyExclusive("bucket", "file")

	return cmd
}

func bucketsFromFlags(flags []string, file string) ([]*domain.Bucket, error) {
	if file != "" {
		bf, err := importer.LoadBucketFile(file)
		if err != nil {
			return nil, err
		}
		return importer.Convert(bf)
	}
	buckets := make([]*domain.Bucket, 0, len(flags))
	for _, f := range flags {
		b, err := importer.ParseBucketFlag(f)
		if err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	return buckets, nil
}

func newPlanNotesCmd(app *App) *cobra.Command {
	var account, text string

	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Set the notes of the draft plan or one of its accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := draftOrNotice(cmd, app)
			if err != nil || draft == nil {
				return err
			}

			var p *domain.Plan
			if account != "" {
				pa, err := resolvePlanAccount(draft, account)
				if err != nil {
					return err
				}
				p, err = app.Plans.UpdatePlanAccountNotes(ctxOf(cmd), draft.ID, pa.ID, text)
				if err != nil {
					return err
				}
			} else {
				p, err = app.Plans.UpdatePlanNotes(ctxOf(cmd), draft.ID, text)
				if err != nil {
					return err
				}
			}
			return showReloaded(cmd, app, draft.ID, p)
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Plan account whose notes to set")
	cmd.Flags().StringVar(&text, "text", "", "Notes text (empty clears)")
	_ = cmd.MarkFlagRequired("text")

	return cmd
}

func newPlanCheckCmd(app *App) *cobra.Command {
	var planFlag string
	var off bool

	cmd := &cobra.Command{
		Use:   "check <plan-account>",
		Short: "Tick off a plan account once its money has moved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := targetPlan(cmd, app, planFlag)
			if err != nil || p == nil {
				return err
			}
			pa, err := resolvePlanAccount(p, args[0])
			if err != nil {
				return err
			}
			if err := app.Plans.SetAccountCheckedState(ctxOf(cmd), p.ID, pa.ID, !off); err != nil {
				return err
			}
			printLine(cmd, fmt.Sprintf("%s %s", formatter.CheckBox(!off, false), pa.Account.Name))
			return nil
		},
	}

	cmd.Flags().StringVar(&planFlag, "plan", "", "Plan to update (default the draft)")
	cmd.Flags().BoolVar(&off, "off", false, "Uncheck instead")

	return cmd
}

func showReloaded(cmd *cobra.Command, app *App, planID string, p *domain.Plan) error {
	p, err := reloadIfEmpty(cmd, app, planID, p)
	if err != nil {
		return err
	}
	showPlan(cmd, app, p)
	return nil
}
