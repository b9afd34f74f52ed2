package cli

import (
	"github.com/alexanderramin/moneyplan/internal/cli/formatter"
	"github.com/alexanderramin/moneyplan/internal/domain"
	"github.com/alexanderramin/moneyplan/internal/share"
	"github.com/spf13/cobra"
)

func newPlanShareCmd(app *App) *cobra.Command {
	var planFlag, email, name, sender string
	var expiryDays int
	var copyLink, sms bool

	cmd := &cobra.Command{
		Use:   "share",
		Short: "Create a share link for a plan and send it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxOf(cmd)
			p, err := targetPlan(cmd, app, planFlag)
			if err != nil || p == nil {
				return err
			}
			if !cmd.Flags().Changed("expiry-days") && app.ShareExpiryDays > 0 {
				expiryDays = app.ShareExpiryDays
			}

			stop := app.spin(cmd, "Creating share link...")
			link, err := app.Plans.CreateShareLink(ctx, p.ID, expiryDays)
			stop()
			if err != nil {
				return err
			}

			smsURI := ""
			if sms {
				smsURI = share.SMSLink(link.URL)
			}
			render(cmd, formatter.FormatShareLink(link, smsURI))

			if copyLink {
				if err := app.copyLink(link.URL); err != nil {
					return err
				}
				printLine(cmd, formatter.Dim("Link copied to clipboard"))
			}

			if email == "" {
				return nil
			}
			if sender == "" {
				if u := app.Auth.Current(); u != nil {
					sender = u.Name
					if sender == "" {
						sender = u.Email
					}
				}
			}
			return app.Plans.SharePlan(ctx, share.Notification{
				RecipientEmail: email,
				RecipientName:  name,
				SenderName:     sender,
				PlanLink:       link.URL,
			})
		},
	}

	cmd.Flags().StringVar(&planFlag, "plan", "", "Plan to share (default the draft)")
	cmd.Flags().IntVar(&expiryDays, "expiry-days", domain.DefaultShareExpiryDays, "Days until the link expires")
	cmd.Flags().BoolVar(&copyLink, "copy", false, "Copy the link to the clipboard")
	cmd.Flags().StringVar(&email, "email", "", "Email the link to this address")
	cmd.Flags().StringVar(&name, "name", "", "Recipient name for the email")
	cmd.Flags().StringVar(&sender, "sender", "", "Sender name for the email (default your name)")
	cmd.Flags().BoolVar(&sms, "sms", false, "Print an sms: link that texts the share link")

	return cmd
}
