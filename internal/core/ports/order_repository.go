// Package ports defines the contracts between the workflow core and the
// infrastructure it runs on: persistence, messaging, rendering and time.
package ports

import (
	"context"

	"orderops/internal/core/domain/model/kernel"
	"orderops/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Orders are owned by the external store, so there is no Add or Delete.
type OrderRepository interface {
	// Get retrieves an order by id.
	// Returns an error matching errs.ErrObjectNotFound for unknown ids.
	Get(ctx context.Context, id kernel.OrderID) (*order.Order, error)

	// GetMany retrieves the orders that exist among ids. Unknown ids are
	// silently absent from the result; the result order is unspecified.
	// Stored orders that cannot be decoded are returned in unreadable
	// instead of failing the whole call.
	GetMany(ctx context.Context, ids []kernel.OrderID) (orders []*order.Order, unreadable []UnreadableOrder, err error)

	// Update writes the status fields and metadata of an order as a
	// compare-and-set on (id, version). On success the stored version is
	// incremented.
	//
	// Returns an error matching errs.ErrVersionConflict when the stored
	// version differs from aggregate.Version(), and errs.ErrObjectNotFound
	// when the order no longer exists.
	Update(ctx context.Context, aggregate *order.Order) error
}

// UnreadableOrder is a stored order whose row does not map to a valid
// aggregate, e.g. a fulfillment status written by another system.
type UnreadableOrder struct {
	ID  string
	Err error
}
