// Package order provides the Order aggregate for the post-purchase workflow of
// custom-manufactured orders (printed vinyl, battery packs, ...).
//
// The package includes:
//   - Order: the aggregate whose status fields and metadata the workflow changes
//   - FulfillmentStatus: the forward-only shipment state machine
//   - ProductionStatus: the unordered manufacturing queue label, or none
//   - PaymentStatus, Item, Customer: read-only order data used by exports
//
// Key business rules:
//   - Fulfillment moves not_fulfilled -> fulfilled -> delivered, never backwards
//   - Re-applying the current status is a successful no-op
//   - Production labels come from a fixed set and may change to any other label
//   - Every applied change is stamped in metadata and recorded as a StatusChange
package order
