// Package outboxrepo stores order status changes until the relay job has
// published them.
package outboxrepo

import (
	"time"

	"orderops/internal/core/domain/model/kernel"
	"orderops/internal/core/domain/model/order"
	"orderops/internal/core/ports"

	"github.com/google/uuid"
)

// MessageDTO is one row of outbox_messages. SentAt stays NULL until published.
type MessageDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID    string    `gorm:"type:varchar(64);index"`
	Kind       string    `gorm:"type:varchar(16)"`
	FromStatus string    `gorm:"type:varchar(32)"`
	ToStatus   string    `gorm:"type:varchar(32)"`
	ChangedAt  time.Time
	CreatedAt  time.Time  `gorm:"index"`
	SentAt     *time.Time `gorm:"index"`
}

func (MessageDTO) TableName() string {
	return "outbox_messages"
}

func fromChange(change order.StatusChange) MessageDTO {
	return MessageDTO{
		ID:         kernel.NewUUID().Google(),
		OrderID:    change.OrderID.String(),
		Kind:       change.Kind,
		FromStatus: change.From,
		ToStatus:   change.To,
		ChangedAt:  change.ChangedAt,
	}
}

func toMessage(dto MessageDTO) (ports.OutboxMessage, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return ports.OutboxMessage{}, err
	}
	orderID, err := kernel.NewOrderID(dto.OrderID)
	if err != nil {
		return ports.OutboxMessage{}, err
	}

	return ports.OutboxMessage{
		ID: id,
		Change: order.StatusChange{
			OrderID:   orderID,
			Kind:      dto.Kind,
			From:      dto.FromStatus,
			To:        dto.ToStatus,
			ChangedAt: dto.ChangedAt,
		},
		CreatedAt: dto.CreatedAt,
	}, nil
}
