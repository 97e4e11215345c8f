package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyEntry holds the figures of one day. Revenue is net of discounts and
// Profit may be negative.
type DailyEntry struct {
	Date     time.Time
	Revenue  decimal.Decimal
	Expenses decimal.Decimal
	Profit   decimal.Decimal
}

// DailyStats is the day-by-day series of a range and its totals.
type DailyStats struct {
	Days          []DailyEntry
	TotalRevenue  decimal.Decimal
	TotalExpenses decimal.Decimal
	TotalProfit   decimal.Decimal
}

// dayLedger holds the per-day sums shared by the daily reports.
type dayLedger struct {
	gross    decimal.Decimal
	discount decimal.Decimal
	expenses decimal.Decimal
	card     decimal.Decimal
	typed    decimal.Decimal
}

func (d dayLedger) netRevenue() decimal.Decimal {
	return d.gross.Sub(d.discount)
}

// bucketByDay folds the snapshot into per-day sums. typedService selects the
// service type accumulated into dayLedger.typed; empty skips it.
func bucketByDay(s Snapshot, typedService string) map[time.Time]*dayLedger {
	days := make(map[time.Time]*dayLedger)
	get := func(t time.Time) *dayLedger {
		k := dayKey(t)
		d, ok := days[k]
		if !ok {
			d = &dayLedger{}
			days[k] = d
		}
		return d
	}

	for _, b := range payedBookings(s.Range, s.Bookings) {
		d := get(b.Date)
		d.gross = d.gross.Add(b.GrossTotal())
		d.discount = d.discount.Add(BookingDiscount(b))
		if b.Payment.IsCardDebit() {
			d.card = d.card.Add(b.Payment.DebitAmount)
		}
		if typedService != "" {
			d.typed = d.typed.Add(b.TotalForType(typedService))
		}
	}
	for _, e := range liveExpenses(s.Range, s.Expenses) {
		d := get(e.Date)
		d.expenses = d.expenses.Add(e.Price)
	}
	return days
}

// ComputeDailyStats walks the snapshot range one day at a time, both ends
// included, and reports revenue, expenses and profit for every day. Days
// without activity report zeros. A range whose start is after its end
// yields an empty series and zero totals.
func ComputeDailyStats(s Snapshot) DailyStats {
	buckets := bucketByDay(s, "")
	stats := DailyStats{Days: []DailyEntry{}}

	for _, day := range s.Range.Days() {
		d := buckets[day]
		if d == nil {
			d = &dayLedger{}
		}
		revenue := d.netRevenue()
		profit := revenue.Sub(d.expenses)

		stats.Days = append(stats.Days, DailyEntry{
			Date:     day,
			Revenue:  revenue,
			Expenses: d.expenses,
			Profit:   profit,
		})
		stats.TotalRevenue = stats.TotalRevenue.Add(revenue)
		stats.TotalExpenses = stats.TotalExpenses.Add(d.expenses)
		stats.TotalProfit = stats.TotalProfit.Add(profit)
	}
	return stats
}

// TypedDailyEntry extends DailyEntry with the split between one distinguished
// service type and everything else, plus the card-debited amount.
type TypedDailyEntry struct {
	DailyEntry
	TypedRevenue decimal.Decimal
	OtherRevenue decimal.Decimal
	CardRevenue  decimal.Decimal
}

// TypedDailyStats is the extended daily series for a service type.
type TypedDailyStats struct {
	ServiceType       string
	Days              []TypedDailyEntry
	TotalRevenue      decimal.Decimal
	TotalExpenses     decimal.Decimal
	TotalProfit       decimal.Decimal
	TotalTypedRevenue decimal.Decimal
	TotalOtherRevenue decimal.Decimal
	TotalCardRevenue  decimal.Decimal
}

// DefaultDistinguishedServiceType is the service type split out by
// ComputeTypedDailyStats when none is given.
const DefaultDistinguishedServiceType = "Beldi"

// ComputeTypedDailyStats is ComputeDailyStats with every day's gross service
// revenue split into serviceType and other. Both parts are gross, so they
// add up to Revenue plus the day's discounts.
func ComputeTypedDailyStats(s Snapshot, serviceType string) TypedDailyStats {
	if serviceType == "" {
		serviceType = DefaultDistinguishedServiceType
	}
	buckets := bucketByDay(s, serviceType)
	stats := TypedDailyStats{ServiceType: serviceType, Days: []TypedDailyEntry{}}

	for _, day := range s.Range.Days() {
		d := buckets[day]
		if d == nil {
			d = &dayLedger{}
		}
		revenue := d.netRevenue()
		profit := revenue.Sub(d.expenses)
		other := d.gross.Sub(d.typed)

		stats.Days = append(stats.Days, TypedDailyEntry{
			DailyEntry: DailyEntry{
				Date:     day,
				Revenue:  revenue,
				Expenses: d.expenses,
				Profit:   profit,
			},
			TypedRevenue: d.typed,
			OtherRevenue: other,
			CardRevenue:  d.card,
		})
		stats.TotalRevenue = stats.TotalRevenue.Add(revenue)
		stats.TotalExpenses = stats.TotalExpenses.Add(d.expenses)
		stats.TotalProfit = stats.TotalProfit.Add(profit)
		stats.TotalTypedRevenue = stats.TotalTypedRevenue.Add(d.typed)
		stats.TotalOtherRevenue = stats.TotalOtherRevenue.Add(other)
		stats.TotalCardRevenue = stats.TotalCardRevenue.Add(d.card)
	}
	return stats
}
