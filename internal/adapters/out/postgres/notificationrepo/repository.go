package notificationrepo

import (
	"context"
	"time"

	"orderops/internal/core/domain/model/kernel"
	"orderops/internal/core/domain/model/notification"
	"orderops/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormNotificationRepository implements ports.NotificationRepository using GORM.
type GormNotificationRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id string, aggregate any)
}

func NewGormNotificationRepository(db *gorm.DB, tracker aggregateTracker) *GormNotificationRepository {
	return &GormNotificationRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormNotificationRepository) Add(ctx context.Context, n *notification.StockWaitNotification) error {
	if err := n.Validate(); err != nil {
		return err
	}

	dto := fromDomain(n)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(n.ID().String(), n)
	return nil
}

// Update writes the delivery state. Only the mutable columns are written so
// clearing LastError or SentAt is not skipped as a zero value.
func (r *GormNotificationRepository) Update(ctx context.Context, n *notification.StockWaitNotification) error {
	if err := n.Validate(); err != nil {
		return err
	}

	dto := fromDomain(n)
	result := r.db.WithContext(ctx).
		Model(&NotificationDTO{}).
		Where("id = ?", dto.ID).
		Select("status", "attempts", "next_attempt_at", "last_error", "sent_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("notification", n.ID().String())
	}

	r.tracker.TrackAggregate(n.ID().String(), n)
	return nil
}

// GetDue returns up to limit pending notifications whose next attempt is not
// after now, oldest first. Inside a transaction the rows stay locked until
// commit and rows locked by another delivery run are skipped.
func (r *GormNotificationRepository) GetDue(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]*notification.StockWaitNotification, error) {
	var dtos []NotificationDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status = ? AND next_attempt_at <= ?", notification.Pending.String(), now).
		Order("next_attempt_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

// GetPendingByOrder returns the pending notifications of orderID. The rows
// stay locked until the surrounding transaction ends, so a delivery run
// cannot pick them up while they are being cancelled.
func (r *GormNotificationRepository) GetPendingByOrder(
	ctx context.Context,
	orderID kernel.OrderID,
) ([]*notification.StockWaitNotification, error) {
	var dtos []NotificationDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("order_id = ? AND status = ?", orderID.String(), notification.Pending.String()).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

func toDomainList(dtos []NotificationDTO) ([]*notification.StockWaitNotification, error) {
	out := make([]*notification.StockWaitNotification, 0, len(dtos))
	for _, dto := range dtos {
		n, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
