package cli

import (
	"github.com/alexanderramin/moneyplan/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newLoginCmd(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the money-planning API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.interactive() {
				if form := credentialsForm(nil, &email, &password); form != nil {
					if err := form.Run(); err != nil {
						return err
					}
				}
			}

			stop := app.spin(cmd, "Signing in...")
			user, err := app.Auth.Login(ctxOf(cmd), email, password)
			stop()
			if err != nil {
				return err
			}
			render(cmd, formatter.FormatUser(user))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")

	return cmd
}

func newRegisterCmd(app *App) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.interactive() {
				if form := credentialsForm(&name, &email, &password); form != nil {
					if err := form.Run(); err != nil {
						return err
					}
				}
			}

			stop := app.spin(cmd, "Creating account...")
			user, err := app.Auth.Register(ctxOf(cmd), name, email, password)
			stop()
			if err != nil {
				return err
			}
			render(cmd, formatter.FormatUser(user))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")

	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Auth.Logout(ctxOf(cmd))
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:               "whoami",
		Short:             "Show the signed-in user",
		Args:              cobra.NoArgs,
		PersistentPreRunE: requireAuth(app),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := app.Auth.Me(ctxOf(cmd))
			if err != nil {
				return err
			}
			if user == nil {
				user = app.Auth.Current()
			}
			if user == nil {
				printLine(cmd, formatter.Dim("Not signed in."))
				return nil
			}
			render(cmd, formatter.FormatUser(user))
			return nil
		},
	}
}
