package report

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/spa/backend/internal/domain/spa"
)

// ResolveCommission returns the commission owed on grossTotal.
// Percentage commissions are keyed on "%" or "PERCENT"; any other tag is a
// flat amount.
func ResolveCommission(grossTotal decimal.Decimal, c *spa.Commission) decimal.Decimal {
	if c == nil {
		return decimal.Zero
	}
	if c.IsPercent() {
		return grossTotal.Mul(c.Value).Div(hundred)
	}
	return c.Value
}

// SourceCommission is the commission accumulated for one source. Bookings
// without a usable source tag share one bucket with Unknown set and an empty
// Source, so a booking literally tagged "unknown" keeps its own bucket.
type SourceCommission struct {
	Source   string
	Unknown  bool
	Total    decimal.Decimal
	Paid     decimal.Decimal
	Unpaid   decimal.Decimal
	Bookings int
}

// CommissionBySource groups the commission of PAYED bookings in r by their
// lower-cased source. Bookings without a source land in the Unknown bucket.
// The result is ordered by total, highest first; ties keep first-seen order.
func CommissionBySource(r DateRange, bookings []spa.Booking) []SourceCommission {
	type bucket struct {
		source  string
		unknown bool
	}
	index := make(map[bucket]int)
	var out []SourceCommission

	for _, b := range payedBookings(r, bookings) {
		if b.Commission == nil {
			continue
		}
		key := bucket{unknown: true}
		if raw, ok := b.SourceValue(); ok && strings.TrimSpace(raw) != "" {
			key = bucket{source: strings.ToLower(strings.TrimSpace(raw))}
		}

		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, SourceCommission{Source: key.source, Unknown: key.unknown})
		}

		amount := ResolveCommission(b.GrossTotal(), b.Commission)
		out[i].Total = out[i].Total.Add(amount)
		out[i].Bookings++
		if b.Commission.Paid {
			out[i].Paid = out[i].Paid.Add(amount)
		} else {
			out[i].Unpaid = out[i].Unpaid.Add(amount)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.GreaterThan(out[j].Total)
	})
	return out
}
