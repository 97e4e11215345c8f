package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/spa/backend/internal/domain/shared"
	"github.com/spa/backend/internal/domain/spa"
	"github.com/spa/backend/internal/infrastructure/persistence/models"
)

// setupLedgerDB opens an in-memory SQLite database with the ledger schema.
// A single connection keeps every query on the same in-memory database.
func setupLedgerDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func june(day int) time.Time {
	return time.Date(2024, time.June, day, 0, 0, 0, 0, time.UTC)
}

func juneRange(from, to int) spa.DateFilter {
	return spa.DateFilter{StartDate: june(from), EndDate: june(to)}
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestGormBookingRepository_FindBookings(t *testing.T) {
	ctx := context.Background()
	db := setupLedgerDB(t)
	bookings := NewGormBookingRepository(db)
	discounts := NewGormDiscountRepository(db)

	promo := &spa.Discount{Code: "SPRING10", Type: spa.DiscountTypePercent, Value: price("10"), Status: spa.DiscountStatusActive}
	require.NoError(t, discounts.Create(ctx, promo))

	source := "instagram"
	seed := []*spa.Booking{
		{
			Date: june(1), Time: "10:00", Status: spa.BookingStatusPayed, Discount: promo, Source: &source,
			Commission: &spa.Commission{Type: spa.CommissionTypePercent, Value: price("5"), Paid: true},
			Reservations: []spa.Reservation{{Guest: "A", Services: []spa.ServiceLine{
				{ServiceID: "s1", Name: "Hammam", Price: price("100"), Type: "Beldi"},
				{ServiceID: "s2", Name: "Massage", Price: price("50"), Type: "Massage"},
			}}},
		},
		{Date: june(2), Status: spa.BookingStatusPending},
		{Date: june(3), Status: spa.BookingStatusPayed, Deleted: true},
		{Date: june(5), Status: spa.BookingStatusPayed},
		{Date: june(3).Add(10*time.Hour + 30*time.Minute), Status: spa.BookingStatusPayed},
	}
	for _, b := range seed {
		require.NoError(t, bookings.Create(ctx, b))
	}

	t.Run("all statuses in range", func(t *testing.T) {
		got, err := bookings.FindBookings(ctx, spa.BookingFilter{DateFilter: juneRange(1, 3)})
		require.NoError(t, err)
		require.Len(t, got, 3)

		assert.Equal(t, seed[0].ID, got[0].ID)
		assert.Equal(t, seed[1].ID, got[1].ID)
		assert.Equal(t, seed[4].ID, got[2].ID)

		first := got[0]
		require.NotNil(t, first.Discount)
		assert.Equal(t, "SPRING10", first.Discount.Code)
		assert.True(t, first.Discount.Value.Equal(price("10")))
		require.NotNil(t, first.Commission)
		assert.True(t, first.Commission.Paid)
		require.NotNil(t, first.Source)
		assert.Equal(t, "instagram", *first.Source)
		require.Len(t, first.Reservations, 1)
		services := first.Reservations[0].Services
		require.Len(t, services, 2)
		assert.Equal(t, "Hammam", services[0].Name)
		assert.Equal(t, "Massage", services[1].Name)
		assert.True(t, first.GrossTotal().Equal(price("150")))
	})

	t.Run("payed only", func(t *testing.T) {
		got, err := bookings.FindBookings(ctx, spa.BookingFilter{DateFilter: juneRange(1, 5)}.PayedOnly())
		require.NoError(t, err)
		require.Len(t, got, 3)
		for _, b := range got {
			assert.Equal(t, spa.BookingStatusPayed, b.Status)
			assert.False(t, b.Deleted)
		}
	})

	t.Run("missing range", func(t *testing.T) {
		_, err := bookings.FindBookings(ctx, spa.BookingFilter{})
		assert.ErrorIs(t, err, shared.ErrMissingDateRange)
	})
}

func TestGormBookingRepository_DanglingDiscount(t *testing.T) {
	ctx := context.Background()
	db := setupLedgerDB(t)
	repo := NewGormBookingRepository(db)

	ghost := &spa.Discount{ID: uuid.New(), Code: "GONE"}
	require.NoError(t, repo.Create(ctx, &spa.Booking{Date: june(1), Status: spa.BookingStatusPayed, Discount: ghost}))

	got, err := repo.FindBookings(ctx, spa.BookingFilter{DateFilter: juneRange(1, 1)})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Discount)
}

func TestGormBookingRepository_QueryError(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT \* FROM "bookings"`).WillReturnError(errors.New("connection reset"))

	_, err := NewGormBookingRepository(db.DB).FindBookings(context.Background(), spa.BookingFilter{DateFilter: juneRange(1, 2)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "find bookings")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestGormExpenseRepository_FindExpenses(t *testing.T) {
	ctx := context.Background()
	db := setupLedgerDB(t)
	repo := NewGormExpenseRepository(db)

	seed := []*spa.Expense{
		{Date: june(2), Name: "Towels", Type: "Supplies", Price: price("40"), Payment: "CASH"},
		{Date: june(1), Name: "Rent", Type: "Fixed", Price: price("1000"), Payment: "CARD"},
		{Date: june(1), Name: "Oil", Type: "Supplies", Price: price("15"), Deleted: true},
		{Date: june(4), Name: "Soap", Type: "Supplies", Price: price("9")},
	}
	for _, e := range seed {
		require.NoError(t, repo.Create(ctx, e))
	}

	got, err := repo.FindExpenses(ctx, juneRange(1, 3))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Rent", got[0].Name)
	assert.Equal(t, "Towels", got[1].Name)
	assert.True(t, got[1].Price.Equal(price("40")))

	_, err = repo.FindExpenses(ctx, spa.DateFilter{StartDate: june(1)})
	assert.ErrorIs(t, err, shared.ErrMissingDateRange)
}

func TestGormSalaryRepository_FindSalaries(t *testing.T) {
	ctx := context.Background()
	db := setupLedgerDB(t)
	repo := NewGormSalaryRepository(db)

	employee := uuid.New()
	require.NoError(t, repo.Create(ctx, &spa.Salary{EmployeeID: employee, Date: june(1), Status: spa.SalaryStatusPaid, Amount: price("300")}))
	require.NoError(t, repo.Create(ctx, &spa.Salary{EmployeeID: employee, Date: june(2), Status: spa.SalaryStatusUnpaid, Amount: price("120"), Deleted: true}))
	require.NoError(t, repo.Create(ctx, &spa.Salary{EmployeeID: employee, Date: june(9), Status: spa.SalaryStatusUnpaid, Amount: price("80")}))

	got, err := repo.FindSalaries(ctx, juneRange(1, 7))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, employee, got[0].EmployeeID)
	assert.Equal(t, spa.SalaryStatusPaid, got[0].Status)
	assert.True(t, got[0].Amount.Equal(price("300")))
}

func TestGormDiscountRepository_FindByCode(t *testing.T) {
	ctx := context.Background()
	db := setupLedgerDB(t)
	repo := NewGormDiscountRepository(db)

	end := june(30)
	require.NoError(t, repo.Create(ctx, &spa.Discount{
		Code: "SUMMER", Type: spa.DiscountTypeCurrency, Value: price("25"), Status: spa.DiscountStatusActive,
		StartDate: func() *time.Time { d := june(1); return &d }(), EndDate: &end,
	}))

	found, err := repo.FindByCode(ctx, "SUMMER")
	require.NoError(t, err)
	assert.True(t, found.IsCurrency())
	assert.True(t, found.Value.Equal(price("25")))
	require.NotNil(t, found.EndDate)
	assert.True(t, found.EndDate.Equal(end))

	_, err = repo.FindByCode(ctx, "WINTER")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
