package ports

import (
	"context"
	"time"

	"orderops/internal/core/domain/model/kernel"
	"orderops/internal/core/domain/model/order"
)

// OutboxMessage is a status change waiting to be published.
type OutboxMessage struct {
	ID        kernel.UUID
	Change    order.StatusChange
	CreatedAt time.Time
}

// OutboxRepository stores status changes written in the same transaction as
// the order they describe.
type OutboxRepository interface {
	Add(ctx context.Context, changes ...order.StatusChange) error

	// FetchPending returns up to limit unpublished messages, oldest first,
	// locking them for the current transaction.
	FetchPending(ctx context.Context, limit int) ([]OutboxMessage, error)

	MarkSent(ctx context.Context, ids []kernel.UUID, at time.Time) error
}
