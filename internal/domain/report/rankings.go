package report

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spa/backend/internal/domain/spa"
)

// Default limits of the ranking reports.
const (
	DefaultTopServicesLimit    = 4
	DefaultTopRevenueDaysLimit = 5
)

// ServiceUsage counts how often a service was sold. Name and Price are those
// of the first line seen for the service.
type ServiceUsage struct {
	ServiceID string
	Name      string
	Price     decimal.Decimal
	Count     int
}

// TopServices ranks services sold in PAYED bookings of r by number of
// lines, truncated to limit (DefaultTopServicesLimit when limit <= 0).
// Services with equal counts keep the order in which they were first seen.
func TopServices(r DateRange, bookings []spa.Booking, limit int) []ServiceUsage {
	if limit <= 0 {
		limit = DefaultTopServicesLimit
	}

	index := make(map[string]int)
	out := []ServiceUsage{}
	for _, b := range payedBookings(r, bookings) {
		for _, res := range b.Reservations {
			for _, line := range res.Services {
				key := line.ServiceID
				if key == "" {
					key = "name:" + line.Name
				}
				i, ok := index[key]
				if !ok {
					i = len(out)
					index[key] = i
					out = append(out, ServiceUsage{ServiceID: line.ServiceID, Name: line.Name, Price: line.Price})
				}
				out[i].Count++
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// BookingRevenue is the gross service revenue of one booking.
type BookingRevenue struct {
	BookingID uuid.UUID
	Revenue   decimal.Decimal
}

// RevenueDay is the gross service revenue of one day and the bookings behind it.
type RevenueDay struct {
	Date     time.Time
	Revenue  decimal.Decimal
	Bookings []BookingRevenue
}

// TopRevenueDays ranks the days of r by gross service revenue of PAYED
// bookings, truncated to limit (DefaultTopRevenueDaysLimit when limit <= 0).
// Days with equal revenue keep chronological order.
func TopRevenueDays(r DateRange, bookings []spa.Booking, limit int) []RevenueDay {
	if limit <= 0 {
		limit = DefaultTopRevenueDaysLimit
	}

	byDay := make(map[time.Time]*RevenueDay)
	for _, b := range payedBookings(r, bookings) {
		k := dayKey(b.Date)
		d, ok := byDay[k]
		if !ok {
			d = &RevenueDay{Date: k}
			byDay[k] = d
		}
		gross := b.GrossTotal()
		d.Revenue = d.Revenue.Add(gross)
		d.Bookings = append(d.Bookings, BookingRevenue{BookingID: b.ID, Revenue: gross})
	}

	out := make([]RevenueDay, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].Date.Before(out[j].Date)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// SourceCount is the number of bookings that came through one source.
type SourceCount struct {
	Source string
	Count  int
}

// SourceDistribution counts the bookings of r per raw source value, any
// status. Sources are compared as stored, so "WHATSAPP" and "whatsapp" are
// separate entries. Bookings without a source are left out. The result is
// ordered by count, highest first; ties keep first-seen order.
func SourceDistribution(r DateRange, bookings []spa.Booking) []SourceCount {
	index := make(map[string]int)
	out := []SourceCount{}
	for _, b := range liveBookings(r, bookings) {
		source, ok := b.SourceValue()
		if !ok || strings.TrimSpace(source) == "" {
			continue
		}
		i, seen := index[source]
		if !seen {
			i = len(out)
			index[source] = i
			out = append(out, SourceCount{Source: source})
		}
		out[i].Count++
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// ExpenseGroup is the total spent on one (name, type) pair.
type ExpenseGroup struct {
	Name  string
	Type  string
	Total decimal.Decimal
	Count int
}

// Label joins name and type for display.
func (g ExpenseGroup) Label() string {
	if g.Type == "" {
		return g.Name
	}
	return g.Name + " - " + g.Type
}

// GroupedExpenses sums the expenses of r per (name, type) pair, largest first.
func GroupedExpenses(r DateRange, expenses []spa.Expense) []ExpenseGroup {
	type key struct{ name, typ string }
	index := make(map[key]int)
	out := []ExpenseGroup{}
	for _, e := range liveExpenses(r, expenses) {
		k := key{e.Name, e.Type}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, ExpenseGroup{Name: e.Name, Type: e.Type})
		}
		out[i].Total = out[i].Total.Add(e.Price)
		out[i].Count++
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.GreaterThan(out[j].Total)
	})
	return out
}

// ChannelTotal is the amount spent through one payment channel. Expenses
// without a payment tag are totalled with Untagged set and an empty Channel.
type ChannelTotal struct {
	Channel  string
	Untagged bool
	Total    decimal.Decimal
}

// PaymentChannelReport splits revenue between card and cash and totals
// expenses per payment channel.
type PaymentChannelReport struct {
	TotalRevenue      decimal.Decimal
	CardRevenue       decimal.Decimal
	CashRevenue       decimal.Decimal
	ExpensesByChannel []ChannelTotal
	TotalExpenses     decimal.Decimal
}

// ComputePaymentChannels builds the payment channel report of r.
//
// Bookings carry no explicit cash tag: cash revenue is the gross service
// revenue of PAYED bookings minus the card-debited amounts of those same
// bookings. Expenses without a payment tag are grouped in one Untagged entry.
func ComputePaymentChannels(r DateRange, bookings []spa.Booking, expenses []spa.Expense) PaymentChannelReport {
	var rep PaymentChannelReport
	for _, b := range payedBookings(r, bookings) {
		rep.TotalRevenue = rep.TotalRevenue.Add(b.GrossTotal())
		if b.Payment.IsCardDebit() {
			rep.CardRevenue = rep.CardRevenue.Add(b.Payment.DebitAmount)
		}
	}
	rep.CashRevenue = rep.TotalRevenue.Sub(rep.CardRevenue)

	type bucket struct {
		channel  string
		untagged bool
	}
	index := make(map[bucket]int)
	rep.ExpensesByChannel = []ChannelTotal{}
	for _, e := range liveExpenses(r, expenses) {
		key := bucket{channel: strings.TrimSpace(e.Payment)}
		key.untagged = key.channel == ""
		i, ok := index[key]
		if !ok {
			i = len(rep.ExpensesByChannel)
			index[key] = i
			rep.ExpensesByChannel = append(rep.ExpensesByChannel, ChannelTotal{Channel: key.channel, Untagged: key.untagged})
		}
		rep.ExpensesByChannel[i].Total = rep.ExpensesByChannel[i].Total.Add(e.Price)
		rep.TotalExpenses = rep.TotalExpenses.Add(e.Price)
	}

	sort.SliceStable(rep.ExpensesByChannel, func(i, j int) bool {
		return rep.ExpensesByChannel[i].Total.GreaterThan(rep.ExpensesByChannel[j].Total)
	})
	return rep
}
