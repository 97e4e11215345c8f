package report

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spa/backend/internal/domain/shared"
)

func TestParseDateRange(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		r, err := ParseDateRange("01-06-2024", "03-06-2024")
		require.NoError(t, err)
		assert.Equal(t, day("2024-06-01"), r.Start)
		assert.Equal(t, day("2024-06-03"), r.End)
		assert.Equal(t, "01-06-2024..03-06-2024", r.String())
	})

	t.Run("missing bound", func(t *testing.T) {
		_, err := ParseDateRange("", "03-06-2024")
		assert.True(t, errors.Is(err, shared.ErrMissingDateRange))
		_, err = ParseDateRange("01-06-2024", "")
		assert.True(t, errors.Is(err, shared.ErrMissingDateRange))
	})

	t.Run("bad format", func(t *testing.T) {
		_, err := ParseDateRange("2024-06-01", "03-06-2024")
		assert.True(t, errors.Is(err, shared.ErrInvalidDateFormat))
	})
}

func TestNewDateRange(t *testing.T) {
	_, err := NewDateRange(time.Time{}, day("2024-01-01"))
	assert.ErrorIs(t, err, shared.ErrMissingDateRange)

	r, err := NewDateRange(time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC), time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, day("2024-01-01"), r.Start)
	assert.Equal(t, day("2024-01-02"), r.End)
}

func TestDateRange_Days(t *testing.T) {
	t.Run("inclusive", func(t *testing.T) {
		days := rng("2024-02-27", "2024-03-01").Days()
		require.Len(t, days, 4)
		assert.Equal(t, day("2024-02-29"), days[2])
		assert.Equal(t, day("2024-03-01"), days[3])
	})

	t.Run("single day", func(t *testing.T) {
		assert.Len(t, SingleDay(day("2024-06-01")).Days(), 1)
	})

	t.Run("start after end", func(t *testing.T) {
		r := rng("2024-06-02", "2024-06-01")
		assert.True(t, r.IsEmpty())
		assert.Empty(t, r.Days())
	})
}

func TestDateRange_Contains(t *testing.T) {
	r := rng("2024-06-01", "2024-06-30")
	assert.True(t, r.Contains(time.Date(2024, 6, 30, 23, 59, 0, 0, time.UTC)))
	assert.True(t, r.Contains(day("2024-06-01")))
	assert.False(t, r.Contains(day("2024-07-01")))
	assert.False(t, r.Contains(day("2024-05-31")))
}

func TestDateRange_PreviousMonth(t *testing.T) {
	tests := []struct {
		name      string
		in        DateRange
		wantStart string
		wantEnd   string
	}{
		{"plain", rng("2024-06-01", "2024-06-30"), "2024-05-01", "2024-05-30"},
		{"clamps to leap february", rng("2024-03-01", "2024-03-31"), "2024-02-01", "2024-02-29"},
		{"clamps to short february", rng("2023-03-31", "2023-03-31"), "2023-02-28", "2023-02-28"},
		{"crosses year", rng("2024-01-10", "2024-01-20"), "2023-12-10", "2023-12-20"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := tt.in.PreviousMonth()
			assert.Equal(t, day(tt.wantStart), prev.Start)
			assert.Equal(t, day(tt.wantEnd), prev.End)
		})
	}
}

func TestRangeSelector_Resolve(t *testing.T) {
	now := time.Date(2024, time.June, 15, 18, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		sel       RangeSelector
		wantStart string
		wantEnd   string
	}{
		{"explicit", Explicit(day("2024-06-01"), day("2024-06-10")), "2024-06-01", "2024-06-10"},
		// 1 January 2024 is a Monday.
		{"week 1 starting on jan 1", Week(2024, 1), "2024-01-01", "2024-01-07"},
		{"week 3", Week(2024, 3), "2024-01-15", "2024-01-21"},
		// 1 January 2023 is a Sunday, the first Monday is the 2nd.
		{"week 1 of 2023", Week(2023, 1), "2023-01-02", "2023-01-08"},
		// 1 January 2025 is a Wednesday, the first Monday is the 6th.
		{"week 1 of 2025", Week(2025, 1), "2025-01-06", "2025-01-12"},
		{"week defaults to current year", Week(0, 2), "2024-01-08", "2024-01-14"},
		{"month", Month(2024, 2), "2024-02-01", "2024-02-29"},
		{"current month", Month(0, 0), "2024-06-01", "2024-06-30"},
		{"year", Year(2023), "2023-01-01", "2023-12-31"},
		{"today", Today(), "2024-06-15", "2024-06-15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := tt.sel.Resolve(now)
			require.NoError(t, err)
			assert.Equal(t, day(tt.wantStart), r.Start)
			assert.Equal(t, day(tt.wantEnd), r.End)
		})
	}

	invalid := []RangeSelector{
		Week(2024, 0),
		Week(2024, 54),
		Month(2024, 13),
		Year(-1),
		{Kind: "fortnight"},
	}
	for _, sel := range invalid {
		_, err := sel.Resolve(now)
		assert.ErrorIs(t, err, shared.ErrInvalidInput, "%+v", sel)
	}

	_, err := Explicit(time.Time{}, day("2024-06-01")).Resolve(now)
	assert.ErrorIs(t, err, shared.ErrMissingDateRange)
}
