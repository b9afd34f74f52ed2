package share

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

const testLink = "https://moneyplan.example/shared/abc123?token=x&y=1"

func validNotification() Notification {
	return Notification{
		RecipientEmail: "bob@example.com",
		RecipientName:  "Bob",
		SenderName:     "Ann",
		PlanLink:       testLink,
	}
}

func TestSMSLink_BodyDecodesToExactLink(t *testing.T) {
	sms := SMSLink(testLink)
	require.True(t, strings.HasPrefix(sms, "sms:?&body="))

	q, err := url.ParseQuery(strings.TrimPrefix(sms, "sms:?"))
	require.NoError(t, err)
	assert.Equal(t, testLink, q.Get("body"))
}

func TestNotification_Validate(t *testing.T) {
	assert.NoError(t, validNotification().Validate())

	n := validNotification()
	n.RecipientEmail = "not-an-email"
	n.PlanLink = " "
	err := n.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid recipient email")
	assert.Contains(t, err.Error(), "plan link is required")
}

func TestRenderEmail_EscapesAndIncludesLink(t *testing.T) {
	n := validNotification()
	n.SenderName = "<script>Ann</script>"
	body, err := RenderEmail(n)
	require.NoError(t, err)
	assert.Contains(t, body, "Hi Bob")
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "https://moneyplan.example/shared/abc123")
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "Ann shared a money plan with you", Subject(validNotification()))
	assert.Equal(t, "A money plan was shared with you", Subject(Notification{}))
}

func TestSMTPMailer_Send(t *testing.T) {
	var sent *gomail.Message
	m := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Port: 587, From: "plans@example.com"})
	m.send = func(msg *gomail.Message) error {
		sent = msg
		return nil
	}

	require.NoError(t, m.Send(context.Background(), validNotification()))
	require.NotNil(t, sent)
	assert.Equal(t, []string{"plans@example.com"}, sent.GetHeader("From"))
	assert.Equal(t, []string{"Ann shared a money plan with you"}, sent.GetHeader("Subject"))
}

func TestSMTPMailer_SendFailureIsReturned(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{})
	m.send = func(*gomail.Message) error { return errors.New("connection refused") }
	err := m.Send(context.Background(), validNotification())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestSMTPMailer_InvalidNotificationNeverDials(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{})
	called := false
	m.send = func(*gomail.Message) error { called = true; return nil }
	assert.Error(t, m.Send(context.Background(), Notification{}))
	assert.False(t, called)
}

type fakePublisher struct {
	exchange, key string
	msg           amqp091.Publishing
	err           error
}

func (f *fakePublisher) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp091.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func TestQueueMailer_PublishesNotification(t *testing.T) {
	pub := &fakePublisher{}
	q := newQueueMailer(pub, "moneyplan", "share-emails", nil)

	require.NoError(t, q.Send(context.Background(), validNotification()))
	assert.Equal(t, "moneyplan", pub.exchange)
	assert.Equal(t, "share-emails", pub.key)
	assert.Equal(t, "application/json", pub.msg.ContentType)
	assert.Equal(t, amqp091.Persistent, pub.msg.DeliveryMode)

	var msg ShareMessage
	require.NoError(t, json.Unmarshal(pub.msg.Body, &msg))
	assert.Equal(t, "plan.shared", msg.Type)
	assert.Equal(t, testLink, msg.Notification.PlanLink)
	assert.Equal(t, pub.msg.MessageId, msg.ID)
	assert.NoError(t, q.Close())
}

func TestQueueMailer_PublishError(t *testing.T) {
	q := newQueueMailer(&fakePublisher{err: errors.New("channel closed")}, "x", "y", nil)
	err := q.Send(context.Background(), validNotification())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel closed")
}

func TestDisabledMailer(t *testing.T) {
	assert.ErrorIs(t, DisabledMailer{}.Send(context.Background(), validNotification()), ErrMailDisabled)
}
