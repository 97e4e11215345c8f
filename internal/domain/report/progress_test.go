package report

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spa/backend/internal/domain/spa"
)

func TestPercentChange(t *testing.T) {
	t.Run("growth", func(t *testing.T) {
		p := PercentChange(dec("150"), dec("100"))
		require.NotNil(t, p)
		assertDec(t, "50", *p)
	})

	t.Run("decline", func(t *testing.T) {
		p := PercentChange(dec("75"), dec("100"))
		require.NotNil(t, p)
		assertDec(t, "-25", *p)
	})

	t.Run("zero over zero", func(t *testing.T) {
		p := PercentChange(dec("0"), dec("0"))
		require.NotNil(t, p)
		assert.True(t, p.IsZero())
	})

	t.Run("nonzero over zero is undefined", func(t *testing.T) {
		assert.Nil(t, PercentChange(dec("10"), dec("0")))
		assert.Nil(t, PercentChange(dec("-10"), dec("0")))
	})
}

func TestComputePeriodTotals_Clients(t *testing.T) {
	sharedID := uuid.New()
	b1 := booking("2024-06-01", []spa.ServiceLine{svc("s1", "Massage", 100, "")})
	b1.Reservations = append(b1.Reservations, spa.Reservation{ID: sharedID})
	b2 := booking("2024-06-02", []spa.ServiceLine{svc("s1", "Massage", 100, "")})
	b2.Reservations = []spa.Reservation{{ID: sharedID}, {}, {}}
	pending := booking("2024-06-02", []spa.ServiceLine{svc("s1", "Massage", 100, "")}, withStatus(spa.BookingStatusPending))

	totals := ComputePeriodTotals(Snapshot{
		Range:    rng("2024-06-01", "2024-06-30"),
		Bookings: []spa.Booking{b1, b2, pending},
	})
	// b1's own reservation, the shared one, and b2's two anonymous ones.
	assert.Equal(t, 4, totals.Clients)
	assertDec(t, "100", totals.Revenue)
}

func TestComputeProgressStats(t *testing.T) {
	current := Snapshot{
		Range: rng("2024-06-01", "2024-06-30"),
		Bookings: []spa.Booking{
			booking("2024-06-03", []spa.ServiceLine{svc("s1", "Massage", 300, "")}, withDiscount(spa.DiscountTypePercent, 10)),
			booking("2024-06-04", []spa.ServiceLine{svc("s1", "Massage", 130, "")}),
		},
		Expenses: []spa.Expense{expense("2024-06-05", "Rent", "Fixed", 100, "TRANSFER")},
	}
	previous := Snapshot{
		Range:    current.Range.PreviousMonth(),
		Bookings: []spa.Booking{booking("2024-05-03", []spa.ServiceLine{svc("s1", "Massage", 200, "")})},
	}

	stats := ComputeProgressStats(current, previous)
	assert.Equal(t, day("2024-05-01"), stats.Previous.Start)

	assertDec(t, "400", stats.Revenue.Value)
	assertDec(t, "200", stats.Revenue.Previous)
	require.NotNil(t, stats.Revenue.Percentage)
	assertDec(t, "100", *stats.Revenue.Percentage)

	assertDec(t, "100", stats.Expenses.Value)
	assert.Nil(t, stats.Expenses.Percentage)

	assertDec(t, "300", stats.Profit.Value)
	require.NotNil(t, stats.Profit.Percentage)
	assertDec(t, "50", *stats.Profit.Percentage)

	assertDec(t, "2", stats.Clients.Value)
	require.NotNil(t, stats.Clients.Percentage)
	assertDec(t, "100", *stats.Clients.Percentage)
}

func TestComputeProgressStats_BothEmpty(t *testing.T) {
	r := rng("2024-06-01", "2024-06-30")
	stats := ComputeProgressStats(Snapshot{Range: r}, Snapshot{Range: r.PreviousMonth()})

	for _, m := range []MetricChange{stats.Revenue, stats.Expenses, stats.Profit, stats.Clients} {
		require.NotNil(t, m.Percentage)
		assert.True(t, m.Percentage.IsZero())
	}
}
