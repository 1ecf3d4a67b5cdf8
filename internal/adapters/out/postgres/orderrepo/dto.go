// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// Orders and their lines are owned by the store; this package maps them to
// the order aggregate and writes back only the workflow-owned fields.
package orderrepo

import (
	"time"

	"orderops/internal/core/domain/model/kernel"
	"orderops/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Metadata is a jsonb column so the store's own keys survive our writes.
type OrderDTO struct {
	ID                string          `gorm:"type:varchar(64);primaryKey"`
	Customer          CustomerDTO     `gorm:"embedded;embeddedPrefix:customer_"`
	OrderedAt         time.Time       `gorm:"index"`
	TotalAmount       decimal.Decimal `gorm:"type:numeric(12,2)"`
	Currency          string          `gorm:"type:char(3)"`
	PaymentStatus     string          `gorm:"type:varchar(32)"`
	FulfillmentStatus string          `gorm:"type:varchar(32);index"`
	Metadata          datatypes.JSONMap
	Items             []ItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Version           int64     `gorm:"not null;default:1"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// CustomerDTO is the buyer snapshot embedded in the order row. A guest order
// without customer data has all three columns empty.
type CustomerDTO struct {
	FirstName string
	LastName  string
	Email     string
}

// ItemDTO is one order line. Position keeps the lines in their original order.
type ItemDTO struct {
	ID        uint   `gorm:"primaryKey"`
	OrderID   string `gorm:"type:varchar(64);index"`
	Position  int
	Title     string
	Quantity  int
	Thumbnail string
	Metadata  datatypes.JSONMap
}

// TableName specifies the database table name for order lines.
func (ItemDTO) TableName() string {
	return "order_items"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(o *order.Order) OrderDTO {
	var customer CustomerDTO
	if c := o.Customer(); c != nil {
		customer = CustomerDTO{
			FirstName: c.FirstName(),
			LastName:  c.LastName(),
			Email:     c.Email(),
		}
	}

	items := make([]ItemDTO, 0, len(o.Items()))
	for i, item := range o.Items() {
		items = append(items, ItemDTO{
			OrderID:   o.ID().String(),
			Position:  i,
			Title:     item.Title(),
			Quantity:  item.Quantity(),
			Thumbnail: item.Thumbnail(),
			Metadata:  datatypes.JSONMap(item.Metadata()),
		})
	}

	return OrderDTO{
		ID:                o.ID().String(),
		Customer:          customer,
		OrderedAt:         o.OrderedAt(),
		TotalAmount:       o.Total().Amount(),
		Currency:          o.Total().Currency(),
		PaymentStatus:     o.PaymentStatus().String(),
		FulfillmentStatus: o.FulfillmentStatus().String(),
		Metadata:          datatypes.JSONMap(o.Metadata()),
		Items:             items,
		Version:           o.Version(),
	}
}

// toDomain converts a database DTO to an order domain aggregate.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.NewOrderID(dto.ID)
	if err != nil {
		return nil, err
	}

	fulfillment, err := order.ParseFulfillmentStatus(dto.FulfillmentStatus)
	if err != nil {
		return nil, err
	}

	var total kernel.Money
	if dto.Currency != "" {
		if total, err = kernel.NewMoney(dto.TotalAmount, dto.Currency); err != nil {
			return nil, err
		}
	}

	var customer *order.Customer
	if c := dto.Customer; c != (CustomerDTO{}) {
		restored := order.NewCustomer(c.FirstName, c.LastName, c.Email)
		customer = &restored
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := order.NewItem(itemDTO.Title, itemDTO.Quantity, itemDTO.Thumbnail, itemDTO.Metadata)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(order.Snapshot{
		ID:                id,
		Customer:          customer,
		OrderedAt:         dto.OrderedAt,
		Total:             total,
		PaymentStatus:     order.ParsePaymentStatus(dto.PaymentStatus),
		FulfillmentStatus: fulfillment,
		Metadata:          dto.Metadata,
		Items:             items,
		Version:           dto.Version,
	})
}
