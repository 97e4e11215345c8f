package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spa/backend/internal/domain/spa"
)

func TestTableNames(t *testing.T) {
	assert.Equal(t, "bookings", BookingModel{}.TableName())
	assert.Equal(t, "reservations", ReservationModel{}.TableName())
	assert.Equal(t, "reservation_services", ReservationServiceModel{}.TableName())
	assert.Equal(t, "discounts", DiscountModel{}.TableName())
	assert.Equal(t, "expenses", ExpenseModel{}.TableName())
	assert.Equal(t, "salaries", SalaryModel{}.TableName())
	assert.Len(t, All(), 6)
}

func TestBookingModel_RoundTrip(t *testing.T) {
	source := "Instagram"
	discountID := uuid.New()
	booking := &spa.Booking{
		ID:     uuid.New(),
		Date:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Time:   "10:30",
		Status: spa.BookingStatusPayed,
		Reservations: []spa.Reservation{
			{Guest: "A", Services: []spa.ServiceLine{
				{ServiceID: "s1", Name: "Hammam", Price: decimal.NewFromInt(150), Type: "Beldi"},
				{ServiceID: "s2", Name: "Massage", Price: decimal.NewFromInt(200), Type: "Massage"},
			}},
		},
		Discount:   &spa.Discount{ID: discountID, Type: spa.DiscountTypePercent, Value: decimal.NewFromInt(10)},
		Commission: &spa.Commission{Type: "%", Value: decimal.NewFromInt(5), Paid: true},
		Payment:    &spa.Payment{PaymentMethod: "CASH", DebitPaymentMethod: "CARD", DebitAmount: decimal.NewFromInt(100)},
		Source:     &source,
	}

	m := BookingModelFromDomain(booking)
	require.NotNil(t, m.DiscountID)
	assert.Equal(t, discountID, *m.DiscountID)
	require.Len(t, m.Reservations, 1)
	assert.NotEqual(t, uuid.Nil, m.Reservations[0].ID)
	assert.Equal(t, m.ID, m.Reservations[0].BookingID)
	require.Len(t, m.Reservations[0].Services, 2)
	assert.Equal(t, 1, m.Reservations[0].Services[1].Position)

	m.Discount = DiscountModelFromDomain(booking.Discount)
	back := m.ToDomain()
	assert.Equal(t, booking.ID, back.ID)
	assert.Equal(t, "10:30", back.Time)
	assert.True(t, back.GrossTotal().Equal(decimal.NewFromInt(350)))
	require.NotNil(t, back.Discount)
	assert.True(t, back.Discount.IsPercent())
	require.NotNil(t, back.Commission)
	assert.True(t, back.Commission.Paid)
	assert.True(t, back.Commission.IsPercent())
	require.NotNil(t, back.Payment)
	assert.True(t, back.Payment.IsCardDebit())
	assert.True(t, back.Payment.DebitAmount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, &source, back.Source)
}

func TestBookingModel_ToDomain_OptionalGroups(t *testing.T) {
	m := &BookingModel{
		BaseModel: BaseModel{ID: uuid.New()},
		Date:      time.Date(2024, 6, 1, 0, 0, 0, 0, time.FixedZone("X", 3600)),
		Status:    spa.BookingStatusPending,
	}

	b := m.ToDomain()
	assert.Nil(t, b.Discount)
	assert.Nil(t, b.Commission)
	assert.Nil(t, b.Payment)
	assert.Empty(t, b.Reservations)
	assert.Equal(t, time.UTC, b.Date.Location())
}

func TestExpenseAndSalaryModels(t *testing.T) {
	e := &spa.Expense{Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Name: "Oil", Type: "Supplies",
		Price: decimal.NewFromInt(40), Payment: "CASH"}
	em := ExpenseModelFromDomain(e)
	assert.NotEqual(t, uuid.Nil, em.ID)
	back := em.ToDomain()
	assert.Equal(t, "Oil", back.Name)
	assert.Equal(t, "CASH", back.Payment)
	assert.True(t, back.Price.Equal(e.Price))

	s := &spa.Salary{EmployeeID: uuid.New(), Date: e.Date, Status: spa.SalaryStatusPaid, Amount: decimal.NewFromInt(900)}
	sm := SalaryModelFromDomain(s)
	sback := sm.ToDomain()
	assert.Equal(t, s.EmployeeID, sback.EmployeeID)
	assert.Equal(t, spa.SalaryStatusPaid, sback.Status)
}
