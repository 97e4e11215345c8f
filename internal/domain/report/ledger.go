package report

import (
	"time"

	"github.com/spa/backend/internal/domain/shared/valueobject"
	"github.com/spa/backend/internal/domain/spa"
)

// Snapshot is the materialized ledger for one window. Every computation in
// this package reads a Snapshot and never the ledger directly.
type Snapshot struct {
	Range    DateRange
	Bookings []spa.Booking
	Expenses []spa.Expense
}

// payedBookings returns the non-deleted PAYED bookings that fall in r.
func payedBookings(r DateRange, bookings []spa.Booking) []spa.Booking {
	out := make([]spa.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.Deleted || !b.IsPayed() || !r.Contains(b.Date) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// liveBookings returns the non-deleted bookings in r regardless of status.
func liveBookings(r DateRange, bookings []spa.Booking) []spa.Booking {
	out := make([]spa.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.Deleted || !r.Contains(b.Date) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// liveExpenses returns the non-deleted expenses in r.
func liveExpenses(r DateRange, expenses []spa.Expense) []spa.Expense {
	out := make([]spa.Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.Deleted || !r.Contains(e.Date) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func dayKey(t time.Time) time.Time {
	return valueobject.StartOfDay(t)
}
