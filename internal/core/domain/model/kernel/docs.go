// Package kernel provides the shared value objects of the order workflow domain.
//
// The package includes:
//   - OrderID: the opaque identifier the external order store assigns to an order
//   - UUID: identifiers minted by this service (notifications, outbox events)
//   - Money: a decimal amount with its currency code
//
// Values are immutable and validated at construction, so every aggregate
// holding them can assume they are well formed.
package kernel
