package share

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends the share email directly through an SMTP server.
type SMTPMailer struct {
	cfg  SMTPConfig
	send func(m *gomail.Message) error
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &SMTPMailer{cfg: cfg, send: func(m *gomail.Message) error { return dialer.DialAndSend(m) }}
}

func (s *SMTPMailer) Send(ctx context.Context, n Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := s.message(n)
	if err != nil {
		return err
	}
	if err := s.send(msg); err != nil {
		return fmt.Errorf("sending share email: %w", err)
	}
	return nil
}

func (s *SMTPMailer) message(n Notification) (*gomail.Message, error) {
	body, err := RenderEmail(n)
	if err != nil {
		return nil, err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	if n.RecipientName != "" {
		m.SetAddressHeader("To", n.RecipientEmail, n.RecipientName)
	} else {
		m.SetHeader("To", n.RecipientEmail)
	}
	m.SetHeader("Subject", Subject(n))
	m.SetBody("text/html", body)
	m.AddAlternative("text/plain", n.PlanLink)
	return m, nil
}

// Subject is the email subject line for n.
func Subject(n Notification) string {
	if n.SenderName == "" {
		return "A money plan was shared with you"
	}
	return fmt.Sprintf("%s shared a money plan with you", n.SenderName)
}

var emailTemplate = template.Must(template.New("share").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; background: #f5f5f5; padding: 20px;">
  <div style="max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; padding: 30px;">
    <p>Hi{{if .RecipientName}} {{.RecipientName}}{{end}},</p>
    <p>{{if .SenderName}}{{.SenderName}}{{else}}Someone{{end}} shared a money plan with you.</p>
    <p><a href="{{.PlanLink}}" style="display: inline-block; background: #2563eb; color: #fff; text-decoration: none; padding: 12px 32px; border-radius: 8px;">View plan</a></p>
    <p style="color: #6c757d; font-size: 12px; word-break: break-all;">{{.PlanLink}}</p>
  </div>
</body>
</html>
`))

// RenderEmail renders the HTML body of the share email.
func RenderEmail(n Notification) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, n); err != nil {
		return "", fmt.Errorf("rendering share email: %w", err)
	}
	return buf.String(), nil
}
