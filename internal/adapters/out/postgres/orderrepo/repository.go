package orderrepo

import (
	"context"
	"errors"

	"orderops/internal/core/domain/model/kernel"
	"orderops/internal/core/domain/model/order"
	"orderops/internal/core/ports"
	"orderops/internal/pkg/errs"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id string, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts an order with its lines. The workflow never creates orders;
// Add exists for imports from the store and for fixtures.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if dto.Version == 0 {
		dto.Version = 1
	}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID().String(), aggregate)
	return nil
}

// Update writes the workflow-owned fields (fulfillment status, metadata) if
// the stored version still equals the aggregate's version, and bumps it.
// A stale aggregate gets errs.ErrVersionConflict; a missing row
// errs.ErrObjectNotFound.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	id := aggregate.ID().String()
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND version = ?", id, aggregate.Version()).
		Updates(map[string]any{
			"fulfillment_status": aggregate.FulfillmentStatus().String(),
			"metadata":           datatypes.JSONMap(aggregate.Metadata()),
			"version":            gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("order", id)
		}
		return errs.NewVersionConflictError("order", id, aggregate.Version())
	}

	r.tracker.TrackAggregate(id, aggregate)
	return nil
}

// Get retrieves an order with its lines.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.OrderID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.withItems(ctx).First(&dto, "id = ?", id.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetMany returns the orders that exist among ids, in no particular order.
// Missing ids are simply absent from the result; rows that fail to decode
// are reported in the second result.
func (r *GormOrderRepository) GetMany(
	ctx context.Context,
	ids []kernel.OrderID,
) ([]*order.Order, []ports.UnreadableOrder, error) {
	if len(ids) == 0 {
		return []*order.Order{}, nil, nil
	}

	raw := make([]string, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.String())
	}

	var dtos []OrderDTO
	if err := r.withItems(ctx).Where("id IN ?", raw).Find(&dtos).Error; err != nil {
		return nil, nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	var unreadable []ports.UnreadableOrder
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			unreadable = append(unreadable, ports.UnreadableOrder{ID: dto.ID, Err: err})
			continue
		}
		orders = append(orders, o)
	}

	return orders, unreadable, nil
}

func (r *GormOrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	})
}
