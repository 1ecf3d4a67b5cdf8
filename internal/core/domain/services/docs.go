// Package services provides domain services for rules that do not belong to a
// single aggregate.
//
// The package includes:
//   - StockDateResolver: turns an operator-chosen day and month into the next
//     matching calendar date for a stock-wait notification
package services
