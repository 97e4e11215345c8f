package report

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/spa/backend/internal/domain/spa"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}

func svc(id, name string, price int64, typ string) spa.ServiceLine {
	return spa.ServiceLine{ServiceID: id, Name: name, Price: decimal.NewFromInt(price), Type: typ}
}

type bookingOpt func(*spa.Booking)

func withStatus(s spa.BookingStatus) bookingOpt {
	return func(b *spa.Booking) { b.Status = s }
}

func withDiscount(typ spa.DiscountType, value int64) bookingOpt {
	return func(b *spa.Booking) {
		b.Discount = &spa.Discount{Type: typ, Value: decimal.NewFromInt(value), Status: spa.DiscountStatusActive}
	}
}

func withCommission(typ spa.CommissionType, value int64, paid bool) bookingOpt {
	return func(b *spa.Booking) {
		b.Commission = &spa.Commission{Type: typ, Value: decimal.NewFromInt(value), Paid: paid}
	}
}

func withSource(s string) bookingOpt {
	return func(b *spa.Booking) { b.Source = &s }
}

func withCard(amount int64) bookingOpt {
	return func(b *spa.Booking) {
		b.Payment = &spa.Payment{PaymentMethod: "CASH", DebitPaymentMethod: spa.PaymentMethodCard, DebitAmount: decimal.NewFromInt(amount)}
	}
}

func deleted() bookingOpt {
	return func(b *spa.Booking) { b.Deleted = true }
}

// booking builds a PAYED booking with one reservation holding lines.
func booking(date string, lines []spa.ServiceLine, opts ...bookingOpt) spa.Booking {
	b := spa.Booking{
		ID:     uuid.New(),
		Date:   day(date),
		Status: spa.BookingStatusPayed,
		Reservations: []spa.Reservation{
			{ID: uuid.New(), Services: lines},
		},
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func expense(date, name, typ string, price int64, payment string) spa.Expense {
	return spa.Expense{
		ID:      uuid.New(),
		Date:    day(date),
		Name:    name,
		Type:    typ,
		Price:   decimal.NewFromInt(price),
		Payment: payment,
	}
}

func rng(start, end string) DateRange {
	return DateRange{Start: day(start), End: day(end)}
}
