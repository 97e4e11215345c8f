package report

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PeriodTotals are the headline figures of one window.
type PeriodTotals struct {
	Revenue  decimal.Decimal
	Expenses decimal.Decimal
	Profit   decimal.Decimal
	Clients  int
}

// ComputePeriodTotals sums the snapshot: net revenue of PAYED bookings,
// expenses, their difference, and the number of distinct reservations
// across PAYED bookings.
func ComputePeriodTotals(s Snapshot) PeriodTotals {
	var t PeriodTotals
	clients := make(map[string]struct{})

	for _, b := range payedBookings(s.Range, s.Bookings) {
		t.Revenue = t.Revenue.Add(b.GrossTotal()).Sub(BookingDiscount(b))
		for i, r := range b.Reservations {
			key := r.ID.String()
			if r.ID == uuid.Nil {
				// Reservations without an id are told apart by position.
				key = fmt.Sprintf("%s#%d", b.ID, i)
			}
			clients[key] = struct{}{}
		}
	}
	for _, e := range liveExpenses(s.Range, s.Expenses) {
		t.Expenses = t.Expenses.Add(e.Price)
	}
	t.Profit = t.Revenue.Sub(t.Expenses)
	t.Clients = len(clients)
	return t
}

// MetricChange compares a metric with its value one month earlier.
// Percentage is nil when the previous value is zero and the current one is not.
type MetricChange struct {
	Value      decimal.Decimal
	Previous   decimal.Decimal
	Percentage *decimal.Decimal
}

// ProgressStats compares a window with the same window one month earlier.
type ProgressStats struct {
	Current  DateRange
	Previous DateRange
	Revenue  MetricChange
	Expenses MetricChange
	Profit   MetricChange
	Clients  MetricChange
}

// PercentChange returns (current - previous) / previous * 100.
// Zero over zero is 0; anything else over zero is nil.
func PercentChange(current, previous decimal.Decimal) *decimal.Decimal {
	if previous.IsZero() {
		if current.IsZero() {
			zero := decimal.Zero
			return &zero
		}
		return nil
	}
	pct := current.Sub(previous).Div(previous).Mul(hundred)
	return &pct
}

func change(current, previous decimal.Decimal) MetricChange {
	return MetricChange{
		Value:      current,
		Previous:   previous,
		Percentage: PercentChange(current, previous),
	}
}

// ComputeProgressStats compares the current snapshot with the previous one.
// The previous snapshot is expected to cover current.Range.PreviousMonth().
func ComputeProgressStats(current, previous Snapshot) ProgressStats {
	cur := ComputePeriodTotals(current)
	prev := ComputePeriodTotals(previous)

	return ProgressStats{
		Current:  current.Range,
		Previous: previous.Range,
		Revenue:  change(cur.Revenue, prev.Revenue),
		Expenses: change(cur.Expenses, prev.Expenses),
		Profit:   change(cur.Profit, prev.Profit),
		Clients:  change(decimal.NewFromInt(int64(cur.Clients)), decimal.NewFromInt(int64(prev.Clients))),
	}
}
