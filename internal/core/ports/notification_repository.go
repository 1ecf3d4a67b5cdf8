package ports

import (
	"context"
	"time"

	"orderops/internal/core/domain/model/kernel"
	"orderops/internal/core/domain/model/notification"
)

// NotificationRepository stores stock-wait notifications.
type NotificationRepository interface {
	Add(ctx context.Context, n *notification.StockWaitNotification) error

	Update(ctx context.Context, n *notification.StockWaitNotification) error

	// GetDue returns up to limit pending notifications whose next attempt is
	// not after now, oldest first. Inside a transaction the rows stay locked
	// until it ends and rows locked by other transactions are skipped.
	GetDue(ctx context.Context, now time.Time, limit int) ([]*notification.StockWaitNotification, error)

	// GetPendingByOrder returns the pending notifications of one order,
	// locked for the rest of the transaction.
	GetPendingByOrder(ctx context.Context, orderID kernel.OrderID) ([]*notification.StockWaitNotification, error)
}
