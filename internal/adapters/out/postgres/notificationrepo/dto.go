// Package notificationrepo persists stock-wait notifications.
package notificationrepo

import (
	"time"

	"orderops/internal/core/domain/model/kernel"
	"orderops/internal/core/domain/model/notification"

	"github.com/google/uuid"
)

// NotificationDTO is one row of stock_wait_notifications. The composite
// index serves the delivery job's due-notification scan.
type NotificationDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID       string    `gorm:"type:varchar(64);index"`
	Recipient     string
	CustomerName  string
	AvailableOn   time.Time `gorm:"type:date"`
	Status        string    `gorm:"type:varchar(16);index:idx_notifications_due,priority:1"`
	Attempts      int
	NextAttemptAt time.Time `gorm:"index:idx_notifications_due,priority:2"`
	LastError     string
	CreatedAt     time.Time
	SentAt        *time.Time
}

func (NotificationDTO) TableName() string {
	return "stock_wait_notifications"
}

func fromDomain(n *notification.StockWaitNotification) NotificationDTO {
	return NotificationDTO{
		ID:            n.ID().Google(),
		OrderID:       n.OrderID().String(),
		Recipient:     n.Recipient(),
		CustomerName:  n.CustomerName(),
		AvailableOn:   n.AvailableOn(),
		Status:        n.Status().String(),
		Attempts:      n.Attempts(),
		NextAttemptAt: n.NextAttemptAt(),
		LastError:     n.LastError(),
		CreatedAt:     n.CreatedAt(),
		SentAt:        n.SentAt(),
	}
}

func toDomain(dto NotificationDTO) (*notification.StockWaitNotification, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.NewOrderID(dto.OrderID)
	if err != nil {
		return nil, err
	}

	return notification.Restore(notification.Snapshot{
		ID:            id,
		OrderID:       orderID,
		Recipient:     dto.Recipient,
		CustomerName:  dto.CustomerName,
		AvailableOn:   dto.AvailableOn,
		Status:        notification.Status(dto.Status),
		Attempts:      dto.Attempts,
		NextAttemptAt: dto.NextAttemptAt,
		LastError:     dto.LastError,
		CreatedAt:     dto.CreatedAt,
		SentAt:        dto.SentAt,
	})
}
