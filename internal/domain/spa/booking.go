package spa

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingStatus is the lifecycle status of an appointment. Transitions are
// owned by the booking desk; reporting only reads the current value.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCanceled  BookingStatus = "CANCELED"
	BookingStatusDone      BookingStatus = "DONE"
	BookingStatusPayed     BookingStatus = "PAYED"
)

// IsValid checks if the status is a known BookingStatus
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCanceled,
		BookingStatusDone, BookingStatusPayed:
		return true
	}
	return false
}

// String returns the string representation of BookingStatus
func (s BookingStatus) String() string {
	return string(s)
}

// PaymentMethodCard marks a card debit on a booking payment.
const PaymentMethodCard = "CARD"

// ServiceLine is one service sold inside a reservation. Name, price and type
// are copied onto the booking when it is taken, so later catalog edits do
// not change historical revenue.
type ServiceLine struct {
	ServiceID string
	Name      string
	Price     decimal.Decimal
	Type      string
}

// Reservation groups the services booked for one guest.
type Reservation struct {
	ID       uuid.UUID
	Guest    string
	Services []ServiceLine
}

// Payment describes how a booking was settled.
type Payment struct {
	PaymentMethod      string
	Currency           string
	Amount             decimal.Decimal
	DebitPaymentMethod string
	DebitCurrency      string
	DebitAmount        decimal.Decimal
}

// IsCardDebit reports whether the debit part of the payment went through a card.
func (p *Payment) IsCardDebit() bool {
	return p != nil && strings.EqualFold(p.DebitPaymentMethod, PaymentMethodCard)
}

// Booking is the read-only view of an appointment used by reporting.
// Discount is the resolved snapshot of the referenced discount record, nil
// when the booking has none or the reference no longer resolves.
type Booking struct {
	ID           uuid.UUID
	Date         time.Time
	Time         string
	Status       BookingStatus
	Reservations []Reservation
	Discount     *Discount
	Commission   *Commission
	Payment      *Payment
	Source       *string
	Deposit      *decimal.Decimal
	Deleted      bool
}

// IsPayed reports whether the booking counts toward revenue.
func (b *Booking) IsPayed() bool {
	return b.Status == BookingStatusPayed
}

// GrossTotal is the sum of every service price across all reservations.
func (b *Booking) GrossTotal() decimal.Decimal {
	total := decimal.Zero
	for _, r := range b.Reservations {
		for _, s := range r.Services {
			total = total.Add(s.Price)
		}
	}
	return total
}

// TotalForType sums the prices of service lines whose type matches
// serviceType, ignoring case.
func (b *Booking) TotalForType(serviceType string) decimal.Decimal {
	total := decimal.Zero
	for _, r := range b.Reservations {
		for _, s := range r.Services {
			if strings.EqualFold(s.Type, serviceType) {
				total = total.Add(s.Price)
			}
		}
	}
	return total
}

// SourceValue returns the raw source tag and whether it is set.
func (b *Booking) SourceValue() (string, bool) {
	if b.Source == nil {
		return "", false
	}
	return *b.Source, true
}
