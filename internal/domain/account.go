package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyAccountName is returned when an account name is blank.
var ErrEmptyAccountName = errors.New("account name is required")

type Account struct {
	ID    string
	Name  string
	Notes string
}

type User struct {
	ID    string
	Email string
	Name  string
}

// ValidateNewAccountName rejects blank names and names that collide,
// ignoring case, with an existing account.
func ValidateNewAccountName(name string, existing []*Account) error {
	return validateAccountName(name, "", existing)
}

// ValidateRenamedAccount is ValidateNewAccountName for an edit: the account
// being renamed does not collide with itself.
func ValidateRenamedAccount(id, name string, existing []*Account) error {
	return validateAccountName(name, id, existing)
}

func validateAccountName(name, selfID string, existing []*Account) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrEmptyAccountName
	}
	for _, a := range existing {
		if a.ID == selfID && selfID != "" {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(a.Name), trimmed) {
			return fmt.Errorf("An account named %q already exists", trimmed)
		}
	}
	return nil
}
