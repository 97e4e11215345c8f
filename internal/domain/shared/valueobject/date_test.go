package valueobject

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spa/backend/internal/domain/shared"
)

func TestFormatDate(t *testing.T) {
	t.Run("uses utc calendar fields", func(t *testing.T) {
		// 23:30 on 31 May in UTC-2 is already 1 June in UTC.
		loc := time.FixedZone("UTC-2", -2*60*60)
		d := time.Date(2024, time.May, 31, 23, 30, 0, 0, loc)
		assert.Equal(t, "01-06-2024", FormatDate(d))
	})

	t.Run("pads day and month", func(t *testing.T) {
		assert.Equal(t, "05-01-2024", FormatDate(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)))
	})
}

func TestParseDate(t *testing.T) {
	t.Run("utc midnight", func(t *testing.T) {
		d, err := ParseDate("01-06-2024")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), d)
	})

	t.Run("single digit day and month", func(t *testing.T) {
		want := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
		for _, s := range []string{"1-6-2024", "01-6-2024", "1-06-2024"} {
			d, err := ParseDate(s)
			require.NoError(t, err, s)
			assert.Equal(t, want, d, s)
			assert.Equal(t, "01-06-2024", FormatDate(d))
		}
	})

	t.Run("day 31 in february rolls over", func(t *testing.T) {
		d, err := ParseDate("31-02-2024")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC), d)
	})

	invalid := []string{
		"",
		"2024-06-01",
		"01/06/2024",
		"aa-06-2024",
		"01-0x-2024",
		"00-06-2024",
		"32-06-2024",
		"01-13-2024",
		"01-00-2024",
		"001-06-2024",
		"01-006-2024",
		"-06-2024",
		"01-06-24",
		"01-06-2024-01",
	}
	for _, s := range invalid {
		t.Run("rejects "+s, func(t *testing.T) {
			_, err := ParseDate(s)
			require.Error(t, err)
			assert.True(t, errors.Is(err, shared.ErrInvalidDateFormat))
		})
	}
}

func TestDateRoundTrip(t *testing.T) {
	for _, s := range []string{"01-01-2024", "29-02-2024", "31-12-1999", "15-07-2030"} {
		d, err := ParseDate(s)
		require.NoError(t, err)
		assert.Equal(t, s, FormatDate(d))
	}

	loc := time.FixedZone("UTC+5", 5*60*60)
	instant := time.Date(2024, time.March, 10, 18, 45, 12, 0, loc)
	back, err := ParseDate(FormatDate(instant))
	require.NoError(t, err)
	assert.Equal(t, StartOfDay(instant), back)
}

func TestParseDateTime(t *testing.T) {
	want := time.Date(2024, time.June, 1, 14, 5, 9, 0, time.UTC)

	t.Run("space delimited", func(t *testing.T) {
		d, err := ParseDateTime("01-06-2024 14:05:09")
		require.NoError(t, err)
		assert.Equal(t, want, d)
	})

	t.Run("compact form", func(t *testing.T) {
		d, err := ParseDateTime("01-06-2024T14:05:09Z")
		require.NoError(t, err)
		assert.Equal(t, want, d)
	})

	t.Run("round trip", func(t *testing.T) {
		d, err := ParseDateTime(FormatDateTime(want))
		require.NoError(t, err)
		assert.Equal(t, want, d)
	})

	for _, s := range []string{
		"01-06-2024",
		"01-06-2024T14:05:09",
		"01-06-2024 24:00:00",
		"01-06-2024 14:60:00",
		"01-06-2024 14:05",
		"xx-06-2024 14:05:09",
	} {
		t.Run("rejects "+s, func(t *testing.T) {
			_, err := ParseDateTime(s)
			assert.True(t, errors.Is(err, shared.ErrInvalidDateFormat))
		})
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 6, 1, 23, 59, 59, 0, time.UTC)
	c := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	assert.True(t, SameDay(a, b))
	assert.False(t, SameDay(b, c))
}
