package services

import (
	"errors"
	"fmt"
	"time"

	"orderops/internal/pkg/errs"
)

// ErrInvalidDate is the cause carried by every day/month that cannot be resolved.
var ErrInvalidDate = errors.New("invalid date")

// StockDateResolver resolves the date a backordered order's stock is expected.
//
// Rules:
//   - day must be within 1..31 and month within 1..12
//   - the date is taken in the current year unless it has already passed,
//     in which case the following year is used (today has not passed)
//   - a day past the end of the resolved month fails; it is never clamped
//
// Example:
//
//	resolver := NewStockDateResolver(time.UTC)
//	date, err := resolver.Resolve(15, 1, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
//	// date == 2026-01-15
type StockDateResolver struct {
	location *time.Location
}

// NewStockDateResolver builds a resolver that decides "today" in location.
// A nil location means UTC.
func NewStockDateResolver(location *time.Location) StockDateResolver {
	if location == nil {
		location = time.UTC
	}
	return StockDateResolver{location: location}
}

// Resolve returns the resolved date at midnight UTC, so it can be stored and
// compared as a plain calendar date.
func (r StockDateResolver) Resolve(day, month int, now time.Time) (time.Time, error) {
	if day < 1 || day > 31 {
		return time.Time{}, errs.NewValueIsOutOfRangeErrorWithCause("day", day, 1, 31, ErrInvalidDate)
	}
	if month < 1 || month > 12 {
		return time.Time{}, errs.NewValueIsOutOfRangeErrorWithCause("month", month, 1, 12, ErrInvalidDate)
	}

	location := r.location
	if location == nil {
		location = time.UTC
	}
	today := now.In(location)
	year := today.Year()
	m := time.Month(month)
	if m < today.Month() || (m == today.Month() && day < today.Day()) {
		year++
	}

	if last := daysIn(m, year); day > last {
		return time.Time{}, errs.NewValueIsInvalidErrorWithCause(
			"day",
			fmt.Errorf("%w: %s %d has %d days, got %d", ErrInvalidDate, m, year, last, day),
		)
	}

	return time.Date(year, m, day, 0, 0, 0, 0, time.UTC), nil
}

func daysIn(m time.Month, year int) int {
	// Day 0 of the next month normalises to the last day of m.
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
