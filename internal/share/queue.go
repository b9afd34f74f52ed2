package share

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
)

type AMQPConfig struct {
	URL      string
	Exchange string
	Queue    string
}

// ShareMessage is what QueueMailer publishes for the mail worker.
type ShareMessage struct {
	ID           string       `json:"id"`
	Type         string       `json:"type"`
	Notification Notification `json:"notification"`
	CreatedAt    time.Time    `json:"createdAt"`
}

const messageTypePlanShared = "plan.shared"

type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// QueueMailer hands share notifications to a mail worker over RabbitMQ.
type QueueMailer struct {
	conn     *amqp091.Connection
	channel  publisher
	exchange string
	queue    string
	logger   *slog.Logger
}

// DialQueueMailer connects and declares a durable direct exchange with the
// queue bound under its own name.
func DialQueueMailer(cfg AMQPConfig, logger *slog.Logger) (*QueueMailer, error) {
	conn, err := amqp091.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(cfg.Exchange, "direct", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(cfg.Queue, cfg.Queue, cfg.Exchange, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("bind queue: %w", err)
	}
	q := newQueueMailer(ch, cfg.Exchange, cfg.Queue, logger)
	q.conn = conn
	return q, nil
}

func newQueueMailer(ch publisher, exchange, queue string, logger *slog.Logger) *QueueMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueueMailer{channel: ch, exchange: exchange, queue: queue, logger: logger}
}

func (q *QueueMailer) Send(ctx context.Context, n Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}
	msg := ShareMessage{
		ID:           uuid.NewString(),
		Type:         messageTypePlanShared,
		Notification: n,
		CreatedAt:    time.Now().UTC(),
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = q.channel.PublishWithContext(ctx, q.exchange, q.queue, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    msg.ID,
		Timestamp:    msg.CreatedAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish share message: %w", err)
	}
	q.logger.InfoContext(ctx, "share email queued", "id", msg.ID, "exchange", q.exchange, "queue", q.queue)
	return nil
}

func (q *QueueMailer) Close() error {
	if q.conn == nil {
		return nil
	}
	return q.conn.Close()
}
