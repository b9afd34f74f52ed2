// Package share delivers plan share links: to the clipboard, by SMS URI,
// and by email through SMTP or a mail queue.
package share

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"

	"github.com/atotto/clipboard"
)

// ErrMailDisabled is returned by DisabledMailer.
var ErrMailDisabled = errors.New("email sharing is not configured (set mail.backend)")

// Notification is the payload of a share email.
type Notification struct {
	RecipientEmail string `json:"recipientEmail"`
	RecipientName  string `json:"recipientName"`
	SenderName     string `json:"senderName"`
	PlanLink       string `json:"planLink"`
}

// Validate checks the fields a mail backend needs.
func (n Notification) Validate() error {
	var problems []string
	if _, err := mail.ParseAddress(n.RecipientEmail); err != nil {
		problems = append(problems, fmt.Sprintf("invalid recipient email %q", n.RecipientEmail))
	}
	if strings.TrimSpace(n.PlanLink) == "" {
		problems = append(problems, "plan link is required")
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// Mailer sends share notifications. Failures are returned, never retried.
type Mailer interface {
	Send(ctx context.Context, n Notification) error
}

type DisabledMailer struct{}

func (DisabledMailer) Send(context.Context, Notification) error { return ErrMailDisabled }

// SMSLink builds the sms: URI whose body is exactly link once decoded.
func SMSLink(link string) string {
	return "sms:?&body=" + url.QueryEscape(link)
}

// CopyLink puts link on the system clipboard unchanged.
func CopyLink(link string) error {
	if err := clipboard.WriteAll(link); err != nil {
		return fmt.Errorf("copying link to clipboard: %w", err)
	}
	return nil
}
