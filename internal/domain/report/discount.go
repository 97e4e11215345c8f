package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spa/backend/internal/domain/shared/valueobject"
	"github.com/spa/backend/internal/domain/spa"
)

var hundred = decimal.NewFromInt(100)

// ResolveDiscount returns the amount deducted from grossTotal by d.
// A nil discount, or one with an unknown type, deducts nothing.
func ResolveDiscount(grossTotal decimal.Decimal, d *spa.Discount) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	switch {
	case d.IsPercent():
		return grossTotal.Mul(d.Value).Div(hundred)
	case d.IsCurrency():
		return d.Value
	default:
		return decimal.Zero
	}
}

// BookingDiscount is the discount deducted from one booking. A booking without
// reservations deducts nothing, whatever its discount policy.
func BookingDiscount(b spa.Booking) decimal.Decimal {
	if len(b.Reservations) == 0 {
		return decimal.Zero
	}
	return ResolveDiscount(b.GrossTotal(), b.Discount)
}

// TotalDiscountForRange sums the discounts of PAYED bookings in r.
func TotalDiscountForRange(r DateRange, bookings []spa.Booking) decimal.Decimal {
	total := decimal.Zero
	for _, b := range payedBookings(r, bookings) {
		total = total.Add(BookingDiscount(b))
	}
	return total
}

// DiscountValidity is the outcome of checking a discount code.
type DiscountValidity string

const (
	DiscountValid    DiscountValidity = "VALID_DISCOUNT"
	DiscountInvalid  DiscountValidity = "INVALID_DISCOUNT"
	DiscountNotFound DiscountValidity = "DISCOUNT_NOT_FOUND"
)

// CheckDiscount decides whether d can be redeemed on the day of at. A nil
// discount means the code did not resolve. Missing window bounds are open.
func CheckDiscount(d *spa.Discount, at time.Time) DiscountValidity {
	if d == nil {
		return DiscountNotFound
	}
	if d.Status != spa.DiscountStatusActive {
		return DiscountInvalid
	}
	day := valueobject.StartOfDay(at)
	if d.StartDate != nil && day.Before(valueobject.StartOfDay(*d.StartDate)) {
		return DiscountInvalid
	}
	if d.EndDate != nil && day.After(valueobject.StartOfDay(*d.EndDate)) {
		return DiscountInvalid
	}
	return DiscountValid
}
