package outboxrepo

import (
	"context"
	"time"

	"orderops/internal/core/domain/model/kernel"
	"orderops/internal/core/domain/model/order"
	"orderops/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOutboxRepository implements ports.OutboxRepository using GORM.
type GormOutboxRepository struct {
	db *gorm.DB
}

func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

// Add appends one message per change.
func (r *GormOutboxRepository) Add(ctx context.Context, changes ...order.StatusChange) error {
	if len(changes) == 0 {
		return nil
	}

	dtos := make([]MessageDTO, 0, len(changes))
	for _, change := range changes {
		dtos = append(dtos, fromChange(change))
	}
	return r.db.WithContext(ctx).Create(&dtos).Error
}

// FetchPending returns up to limit unsent messages in insertion order,
// locking them for the surrounding transaction.
func (r *GormOutboxRepository) FetchPending(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	var dtos []MessageDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("sent_at IS NULL").
		Order("created_at, id").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	messages := make([]ports.OutboxMessage, 0, len(dtos))
	for _, dto := range dtos {
		m, err := toMessage(dto)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, nil
}

func (r *GormOutboxRepository) MarkSent(ctx context.Context, ids []kernel.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Google())
	}
	return r.db.WithContext(ctx).
		Model(&MessageDTO{}).
		Where("id IN ?", raw).
		Update("sent_at", at).Error
}
