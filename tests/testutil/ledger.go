package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spa/backend/internal/domain/spa"
)

// Date returns midnight UTC of the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Amount parses a decimal literal and panics on malformed input.
func Amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Service builds a service line.
func Service(id, name, price, serviceType string) spa.ServiceLine {
	return spa.ServiceLine{ServiceID: id, Name: name, Price: Amount(price), Type: serviceType}
}

// BookingOption customizes a booking built by NewBooking.
type BookingOption func(*spa.Booking)

// WithStatus overrides the default PAYED status.
func WithStatus(status spa.BookingStatus) BookingOption {
	return func(b *spa.Booking) {
		b.Status = status
	}
}

// WithSource tags the booking with an acquisition source.
func WithSource(source string) BookingOption {
	return func(b *spa.Booking) {
		b.Source = &source
	}
}

// WithCommission attaches a referral commission.
func WithCommission(commissionType spa.CommissionType, value string, paid bool) BookingOption {
	return func(b *spa.Booking) {
		b.Commission = &spa.Commission{Type: commissionType, Value: Amount(value), Paid: paid}
	}
}

// WithDiscount references d. The discount must be persisted first when the
// booking is written to a database.
func WithDiscount(d *spa.Discount) BookingOption {
	return func(b *spa.Booking) {
		b.Discount = d
	}
}

// WithCardDebit records a card debit for amount.
func WithCardDebit(amount string) BookingOption {
	return func(b *spa.Booking) {
		b.Payment = &spa.Payment{
			PaymentMethod:      "CASH",
			Currency:           "MAD",
			DebitPaymentMethod: spa.PaymentMethodCard,
			DebitCurrency:      "MAD",
			DebitAmount:        Amount(amount),
		}
	}
}

// Deleted marks the booking as soft-deleted.
func Deleted() BookingOption {
	return func(b *spa.Booking) {
		b.Deleted = true
	}
}

// NewBooking builds a PAYED booking on date with one reservation per
// service group.
func NewBooking(date time.Time, groups [][]spa.ServiceLine, opts ...BookingOption) *spa.Booking {
	b := &spa.Booking{
		ID:     uuid.New(),
		Date:   date,
		Time:   "10:00",
		Status: spa.BookingStatusPayed,
	}
	for i, services := range groups {
		b.Reservations = append(b.Reservations, spa.Reservation{
			ID:       uuid.New(),
			Guest:    "guest-" + string(rune('A'+i)),
			Services: services,
		})
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewExpense builds a live expense.
func NewExpense(date time.Time, name, expenseType, price, payment string) *spa.Expense {
	return &spa.Expense{
		ID:      uuid.New(),
		Date:    date,
		Name:    name,
		Type:    expenseType,
		Price:   Amount(price),
		Payment: payment,
	}
}

// NewSalary builds a live payroll entry.
func NewSalary(employee uuid.UUID, date time.Time, status spa.SalaryStatus, amount string) *spa.Salary {
	return &spa.Salary{
		ID:         uuid.New(),
		EmployeeID: employee,
		Date:       date,
		Status:     status,
		Amount:     Amount(amount),
	}
}
