// Package kafka publishes order status changes to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"orderops/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

const (
	EventTypeStatusChanged = "order.status_changed"

	headerEventType = "event-type"
	headerEventID   = "event-id"
)

// ParseBrokers splits a comma-separated broker list, dropping blanks.
func ParseBrokers(csv string) []string {
	brokers := []string{}
	for _, b := range strings.Split(csv, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// NewWriter returns a writer that hashes message keys to partitions, so all
// events of one order land on one partition in order.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type statusChangedEvent struct {
	EventID   string    `json:"event_id"`
	Type      string    `json:"type"`
	OrderID   string    `json:"order_id"`
	Kind      string    `json:"kind"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	ChangedAt time.Time `json:"changed_at"`
}

// EventPublisher implements ports.EventPublisher. A batch is written in one
// call; the writer either accepts all of it or returns an error, in which
// case the relay retries the whole batch and consumers dedupe on event_id.
type EventPublisher struct {
	writer messageWriter
}

func NewEventPublisher(writer messageWriter) *EventPublisher {
	return &EventPublisher{writer: writer}
}

func (p *EventPublisher) Publish(ctx context.Context, messages []ports.OutboxMessage) error {
	if len(messages) == 0 {
		return nil
	}

	batch := make([]kafka.Message, 0, len(messages))
	for _, m := range messages {
		value, err := json.Marshal(statusChangedEvent{
			EventID:   m.ID.String(),
			Type:      EventTypeStatusChanged,
			OrderID:   m.Change.OrderID.String(),
			Kind:      m.Change.Kind,
			From:      m.Change.From,
			To:        m.Change.To,
			ChangedAt: m.Change.ChangedAt.UTC(),
		})
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", m.ID.String(), err)
		}

		batch = append(batch, kafka.Message{
			Key:   []byte(m.Change.OrderID.String()),
			Value: value,
			Time:  m.CreatedAt,
			Headers: []kafka.Header{
				{Key: headerEventType, Value: []byte(EventTypeStatusChanged)},
				{Key: headerEventID, Value: []byte(m.ID.String())},
			},
		})
	}

	if err := p.writer.WriteMessages(ctx, batch...); err != nil {
		return fmt.Errorf("write %d events: %w", len(batch), err)
	}
	return nil
}
