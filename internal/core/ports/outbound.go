package ports

import (
	"context"
	"io"
	"time"

	"orderops/internal/core/domain/model/kernel"
	"orderops/internal/core/domain/model/order"
)

// StockWaitEmail is the email task handed to the mail pipeline.
type StockWaitEmail struct {
	NotificationID kernel.UUID
	OrderID        kernel.OrderID
	Recipient      string
	CustomerName   string
	AvailableOn    time.Time
}

// EmailSender enqueues customer emails. A nil error means the task was
// accepted by the queue, not that the email was delivered.
type EmailSender interface {
	SendStockWaitEmail(ctx context.Context, email StockWaitEmail) error
}

// EventPublisher publishes order status events. Publish is all or nothing
// from the caller's point of view: on error every message is retried.
type EventPublisher interface {
	Publish(ctx context.Context, messages []OutboxMessage) error
}

// OrderRenderer writes orders into an export document, in the given order.
type OrderRenderer interface {
	Render(w io.Writer, orders []*order.Order) error
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// IdempotencyStore remembers the response of a keyed request.
type IdempotencyStore interface {
	// Load returns the stored response for key, if any.
	Load(ctx context.Context, key string) ([]byte, bool, error)

	Save(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
