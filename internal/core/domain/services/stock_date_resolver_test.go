package services_test

import (
	"fmt"
	"testing"
	"time"

	"orderops/internal/core/domain/services"
	"orderops/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStockDateResolver_Resolve(t *testing.T) {
	resolver := services.NewStockDateResolver(time.UTC)

	testCases := []struct {
		name       string
		day, month int
		now        time.Time
		want       time.Time
	}{
		{"passed this year rolls over", 15, 1, date(2025, 3, 1), date(2026, 1, 15)},
		{"later this year stays", 15, 1, date(2025, 1, 1), date(2025, 1, 15)},
		{"today is not passed", 1, 3, time.Date(2025, 3, 1, 23, 59, 0, 0, time.UTC), date(2025, 3, 1)},
		{"yesterday rolls over", 28, 2, date(2025, 3, 1), date(2026, 2, 28)},
		{"leap day in a leap year", 29, 2, date(2027, 6, 1), date(2028, 2, 29)},
		{"last day of december", 31, 12, date(2025, 12, 31), date(2025, 12, 31)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := resolver.Resolve(tc.day, tc.month, tc.now)

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestStockDateResolver_InvalidDates(t *testing.T) {
	resolver := services.NewStockDateResolver(time.UTC)
	now := date(2025, 3, 1)

	testCases := []struct {
		day, month int
	}{
		{31, 2},
		{30, 2},
		{31, 4},
		{31, 6},
		{31, 9},
		{31, 11},
		{29, 2}, // 2026 is not a leap year
		{0, 1},
		{32, 1},
		{1, 0},
		{1, 13},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%d/%d", tc.day, tc.month), func(t *testing.T) {
			_, err := resolver.Resolve(tc.day, tc.month, now)

			require.ErrorIs(t, err, services.ErrInvalidDate)
		})
	}

	t.Run("out of range values report the bounds", func(t *testing.T) {
		_, err := resolver.Resolve(1, 13, now)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.Contains(t, err.Error(), "max value is 12")
	})
}

func TestStockDateResolver_UsesLocationForToday(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		t.Skip("tzdata not available")
	}
	resolver := services.NewStockDateResolver(madrid)

	// 23:30 UTC on Jan 14 is already Jan 15 in Madrid, so Jan 14 has passed there.
	now := time.Date(2025, 1, 14, 23, 30, 0, 0, time.UTC)
	got, err := resolver.Resolve(14, 1, now)

	require.NoError(t, err)
	assert.Equal(t, date(2026, 1, 14), got)
}
