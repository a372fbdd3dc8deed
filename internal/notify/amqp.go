package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultQueue is the queue purchase notifications are published to.
const DefaultQueue = "shop.notifications"

// Message is the JSON body published for every notification.
type Message struct {
	UserID  int64     `json:"user_id"`
	Message string    `json:"message"`
	SentAt  time.Time `json:"sent_at"`
}

// Channel is the subset of *amqp.Channel used by the publisher.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Dialer opens a channel to the broker. The returned closer releases the connection.
type Dialer func(url string) (Channel, io.Closer, error)

// DialAMQP is the Dialer backed by amqp091-go.
func DialAMQP(url string) (Channel, io.Closer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("failed to open channel: %w", err)
	}
	return ch, conn, nil
}

// AMQP publishes notifications to a durable queue for downstream consumers. A
// connection is opened per message; notifications are rare.
type AMQP struct {
	url   string
	queue string
	dial  Dialer
	now   func() time.Time
}

// NewAMQP creates a publisher. An empty queue selects DefaultQueue; a nil dialer
// selects DialAMQP.
func NewAMQP(url, queue string, dial Dialer) *AMQP {
	if queue == "" {
		queue = DefaultQueue
	}
	if dial == nil {
		dial = DialAMQP
	}
	return &AMQP{url: url, queue: queue, dial: dial, now: time.Now}
}

// Notify publishes one persistent JSON message.
func (a *AMQP) Notify(ctx context.Context, userID int64, message string) error {
	ch, conn, err := a.dial(a.url)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()
	defer func() { _ = ch.Close() }()

	if _, err = ch.QueueDeclare(a.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", a.queue, err)
	}

	sentAt := a.now().UTC()
	body, err := json.Marshal(Message{UserID: userID, Message: message, SentAt: sentAt})
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	err = ch.PublishWithContext(ctx, "", a.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    sentAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}
