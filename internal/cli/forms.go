package cli

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/alexanderramin/moneyplan/internal/cli/formatter"
	"github.com/alexanderramin/moneyplan/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// moneyplanHuhTheme returns a huh theme matching the formatter palette.
func moneyplanHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func themedForm(groups ...*huh.Group) *huh.Form {
	return huh.NewForm(groups...).WithTheme(moneyplanHuhTheme()).WithShowHelp(false)
}

// credentialsForm asks for whatever login or register fields are still
// empty. name is nil for login.
func credentialsForm(name, email, password *string) *huh.Form {
	var fields []huh.Field
	if name != nil && *name == "" {
		fields = append(fields, huh.NewInput().Title("Name").Value(name).Validate(required("name")))
	}
	if *email == "" {
		fields = append(fields, huh.NewInput().Title("Email").Value(email).Validate(validateEmail))
	}
	if *password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(password).
			Validate(required("password")))
	}
	if len(fields) == 0 {
		return nil
	}
	return themedForm(huh.NewGroup(fields...))
}

// planCreateForm collects the fields of a new plan.
func planCreateForm(balance, notes, date *string) *huh.Form {
	return themedForm(huh.NewGroup(
		huh.NewInput().
			Title("Initial balance").
			Placeholder("2500.00").
			Value(balance).
			Validate(validateBalance),
		huh.NewInput().
			Title("Plan date (YYYY-MM-DD, blank for today)").
			Placeholder(time.Now().Format("2006-01-02")).
			Value(date).
			Validate(validateOptionalDate),
		huh.NewText().
			Title("Notes").
			Value(notes),
	))
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validateEmail(s string) error {
	if _, err := mail.ParseAddress(strings.TrimSpace(s)); err != nil {
		return errors.New("enter a valid email address")
	}
	return nil
}

func validateBalance(s string) error {
	d, err := domain.ParseAmount(s)
	if err != nil {
		return err
	}
	return domain.ValidateInitialBalance(d)
}

func validateOptionalDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	_, err := parseDate(s)
	return err
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
	}
	return t, nil
}
