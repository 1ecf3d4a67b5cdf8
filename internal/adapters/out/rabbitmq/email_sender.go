// Package rabbitmq hands stock-wait emails to the mailer service through a
// durable RabbitMQ queue.
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"orderops/internal/core/domain/model/order"
	"orderops/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultExchange   = "orderops.email"
	DefaultRoutingKey = "email.stock_wait"
	DefaultQueue      = "orderops.email.stock_wait.q"

	stockWaitTemplate = "stock_wait"
)

// ErrPublishNacked is returned when the broker refuses a confirmed publish.
var ErrPublishNacked = errors.New("broker did not acknowledge the email task")

// Topology names the exchange, queue and binding the sender publishes to.
type Topology struct {
	Exchange   string
	RoutingKey string
	Queue      string
}

func (t Topology) withDefaults() Topology {
	if t.Exchange == "" {
		t.Exchange = DefaultExchange
	}
	if t.RoutingKey == "" {
		t.RoutingKey = DefaultRoutingKey
	}
	if t.Queue == "" {
		t.Queue = DefaultQueue
	}
	return t
}

// DeclareTopology declares the durable exchange and queue, binds them and
// puts ch into confirm mode. It is run once at startup.
func DeclareTopology(ch *amqp.Channel, t Topology) error {
	t = t.withDefaults()

	if err := ch.ExchangeDeclare(t.Exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(t.Queue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, t.RoutingKey, t.Exchange, false, nil); err != nil {
		return fmt.Errorf("queue bind: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		return fmt.Errorf("enable confirm mode: %w", err)
	}
	return nil
}

// publisher is the part of *amqp.Channel the sender uses.
type publisher interface {
	PublishWithDeferredConfirmWithContext(
		ctx context.Context,
		exchange, key string,
		mandatory, immediate bool,
		msg amqp.Publishing,
	) (*amqp.DeferredConfirmation, error)
}

// emailTask is the message body consumed by the mailer.
type emailTask struct {
	Template       string `json:"template"`
	NotificationID string `json:"notification_id"`
	OrderID        string `json:"order_id"`
	To             string `json:"to"`
	CustomerName   string `json:"customer_name"`
	AvailableOn    string `json:"available_on"`
}

// EmailSender implements ports.EmailSender. Each send waits for the broker's
// publisher confirm, so a nil error means the task is durably queued.
type EmailSender struct {
	mu       sync.Mutex
	ch       publisher
	topology Topology
}

func NewEmailSender(ch publisher, t Topology) *EmailSender {
	return &EmailSender{ch: ch, topology: t.withDefaults()}
}

func (s *EmailSender) SendStockWaitEmail(ctx context.Context, email ports.StockWaitEmail) error {
	body, err := json.Marshal(emailTask{
		Template:       stockWaitTemplate,
		NotificationID: email.NotificationID.String(),
		OrderID:        email.OrderID.String(),
		To:             email.Recipient,
		CustomerName:   email.CustomerName,
		AvailableOn:    email.AvailableOn.Format(order.StockAvailableDateLayout),
	})
	if err != nil {
		return fmt.Errorf("marshal email task: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    email.NotificationID.String(),
		Timestamp:    time.Now().UTC(),
		Type:         stockWaitTemplate,
		Body:         body,
	}

	// Confirms are matched by delivery tag, so publishes on one channel are serialized.
	s.mu.Lock()
	defer s.mu.Unlock()

	confirm, err := s.ch.PublishWithDeferredConfirmWithContext(
		ctx,
		s.topology.Exchange,
		s.topology.RoutingKey,
		false,
		false,
		msg,
	)
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	if confirm == nil {
		return nil
	}

	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("wait for confirm: %w", err)
	}
	if !acked {
		return ErrPublishNacked
	}
	return nil
}
